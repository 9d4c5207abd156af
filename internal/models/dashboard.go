package models

// UnitSummary aggregates assignment progress per organizational unit.
type UnitSummary struct {
	Unit      string `db:"unit" json:"unit"`
	Assigned  int    `db:"assigned" json:"assigned"`
	Completed int    `db:"completed" json:"completed"`
}

// TeacherSummary aggregates assignment progress per teacher.
type TeacherSummary struct {
	Teacher   string `db:"teacher" json:"teacher"`
	Assigned  int    `db:"assigned" json:"assigned"`
	Completed int    `db:"completed" json:"completed"`
}

// DashboardSummary is the admin landing-page payload.
type DashboardSummary struct {
	TotalStudents     int              `json:"total_students"`
	CompletedStudents int              `json:"completed_students"`
	PendingStudents   int              `json:"pending_students"`
	UnitSummary       []UnitSummary    `json:"unit_summary"`
	TeacherSummary    []TeacherSummary `json:"teacher_summary"`
}
