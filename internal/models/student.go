package models

import "time"

// Student statuses progress monotonically toward completion. Once a student
// reaches StatusCompleted the status never regresses.
const (
	StudentStatusNew          = "New"
	StudentStatusCalled       = "Called"
	StudentStatusNotConnected = "Not Connected"
	StudentStatusFollowUp     = "Follow Up"
	StudentStatusCompleted    = "Completed"
)

// Student represents an admission candidate stored in the students table.
type Student struct {
	ID            int64     `db:"student_id" json:"student_id"`
	Name          string    `db:"name" json:"name"`
	Mobile        string    `db:"mobile" json:"mobile"`
	Address       *string   `db:"address" json:"address,omitempty"`
	PreferredUnit *string   `db:"preferred_unit" json:"preferred_unit,omitempty"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StudentImportRow is a single record resolved from a bulk import source.
type StudentImportRow struct {
	Name          string
	Mobile        string
	Address       *string
	PreferredUnit *string
}

// ImportReport aggregates the outcome of a bulk import run.
type ImportReport struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// StudentFilter captures filtering criteria for listing students.
type StudentFilter struct {
	Search    string
	Status    string
	Unit      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
