package models

import "time"

// AuditAction constants represent administrative actions to be logged.
const (
	AuditActionLogin                = "LOGIN"
	AuditActionEnableUser           = "ENABLE_USER"
	AuditActionDisableUser          = "DISABLE_USER"
	AuditActionPasswordReset        = "PASSWORD_RESET"
	AuditActionCSVImportStudents    = "CSV_IMPORT_STUDENTS"
	AuditActionCSVImportUsers       = "CSV_IMPORT_USERS"
	AuditActionPreferredUnitChanged = "PREFERRED_UNIT_CHANGED"
	AuditActionAssignmentEnsured    = "ASSIGNMENT_ENSURED"
	AuditActionAssignedSubAdmin     = "STUDENT_ASSIGNED_SUB_ADMIN"
	AuditActionStudentReassigned    = "STUDENT_REASSIGNED"
	AuditActionCallUpdate           = "CALL_UPDATE"
)

// AuditLog represents an audit trail record. It is a side channel and never
// authoritative for business state.
type AuditLog struct {
	ID          int64     `db:"audit_id" json:"audit_id"`
	Action      string    `db:"action" json:"action"`
	PerformedBy string    `db:"performed_by" json:"performed_by"`
	Role        string    `db:"role" json:"role"`
	Target      *string   `db:"target" json:"target,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
