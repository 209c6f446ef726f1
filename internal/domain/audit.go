package domain

import "time"

// Audit action codes
const (
	ActionCreatePatient = "CREATE_PATIENT"
	ActionUpdatePatient = "UPDATE_PATIENT"
	ActionDeletePatient = "DELETE_PATIENT"
	ActionUploadDataset = "UPLOAD_DATASET"
	ActionRegisterUser  = "REGISTER_USER"
	ActionUpdateProfile = "UPDATE_PROFILE"
)

// AuditEntry is an append-only activity record
type AuditEntry struct {
	ID        string    `json:"id"`                // Unique entry identifier
	Username  string    `json:"username"`          // Actor
	Action    string    `json:"action"`            // Action code
	Details   string    `json:"details,omitempty"` // Free-text detail
	Timestamp time.Time `json:"timestamp"`         // UTC time of the action
}
