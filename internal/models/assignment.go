package models

import "time"

// Assignment roles describe who currently holds responsibility for a student
// and which actor role made the assignment.
const (
	RoleSubAdmin   = "SUB_ADMIN"
	RoleTeacher    = "TEACHER"
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleSystem     = "SYSTEM"
)

// Assignment holds the current unit/teacher routing for a student. There is
// at most one row per student.
type Assignment struct {
	StudentID      int64     `db:"student_id" json:"student_id"`
	Unit           *string   `db:"unit" json:"unit,omitempty"`
	Teacher        *string   `db:"teacher" json:"teacher,omitempty"`
	AssignedToRole *string   `db:"assigned_to_role" json:"assigned_to_role,omitempty"`
	AssignedByRole *string   `db:"assigned_by_role" json:"assigned_by_role,omitempty"`
	AssignedBy     *string   `db:"assigned_by" json:"assigned_by,omitempty"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// EnsureOutcome reports what EnsureAssignment did to the row.
type EnsureOutcome string

const (
	EnsureCreated   EnsureOutcome = "created"
	EnsureRepaired  EnsureOutcome = "repaired"
	EnsureUnchanged EnsureOutcome = "unchanged"
)

// UnassignedStudent is a queue entry for students without an actionable
// assignment: no row at all, a row with no assigned role, or a SUB_ADMIN row
// with nobody recorded as the sub-admin.
type UnassignedStudent struct {
	StudentID     int64   `db:"student_id" json:"student_id"`
	Name          string  `db:"name" json:"name"`
	Mobile        string  `db:"mobile" json:"mobile"`
	PreferredUnit *string `db:"preferred_unit" json:"preferred_unit,omitempty"`
	Status        string  `db:"status" json:"status"`
}

// ReassignmentCandidate is a queue entry for students whose stated preference
// diverges from their assigned unit.
type ReassignmentCandidate struct {
	StudentID     int64   `db:"student_id" json:"student_id"`
	Name          string  `db:"name" json:"name"`
	Mobile        string  `db:"mobile" json:"mobile"`
	PreferredUnit string  `db:"preferred_unit" json:"preferred_unit"`
	AssignedUnit  string  `db:"assigned_unit" json:"assigned_unit"`
	Teacher       *string `db:"teacher" json:"teacher,omitempty"`
}
