package models

import "time"

// CallLog is an append-only record of a single outreach attempt. Rows are
// never mutated or deleted; each row is an attempt, not a state.
type CallLog struct {
	ID         int64     `db:"call_id" json:"call_id"`
	StudentID  int64     `db:"student_id" json:"student_id"`
	Teacher    string    `db:"teacher" json:"teacher"`
	Unit       string    `db:"unit" json:"unit"`
	CallStatus string    `db:"call_status" json:"call_status"`
	Remarks    *string   `db:"remarks" json:"remarks,omitempty"`
	CalledAt   time.Time `db:"called_at" json:"called_at"`
}

// TeacherPerformance summarises call outcomes for one teacher.
type TeacherPerformance struct {
	TotalCalled   int `db:"total_called" json:"total_called"`
	CompletedByMe int `db:"completed_by_me" json:"completed_by_me"`
}
