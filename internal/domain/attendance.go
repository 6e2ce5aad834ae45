package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceEvent is an immutable attendance record. DisplayName and
// ExternalID are denormalized snapshots taken at recording time, so history
// stays readable after the identity is deleted. IdentityID is a weak
// reference for the same reason.
type AttendanceEvent struct {
	ID          uuid.UUID `json:"id"`
	IdentityID  uuid.UUID `json:"identity_id"`
	ExternalID  string    `json:"external_id"`
	DisplayName string    `json:"display_name"`
	Day         Day       `json:"day"`
	RecordedAt  time.Time `json:"recorded_at"`
	Confidence  int       `json:"confidence"`
}

// RecordOutcome is the ledger's answer to a tryRecord attempt. Created
// reports whether this call won the (identity, day) slot; Event is the
// recorded event either way, so a losing caller can show the original one.
type RecordOutcome struct {
	Created bool
	Event   *AttendanceEvent
}

// AttendanceStats summarizes one day. AbsentToday is clamped at zero:
// events recorded for since-deleted identities can push the present count
// past the registered count without being an error.
type AttendanceStats struct {
	TotalRegistered int     `json:"total_registered"`
	PresentToday    int     `json:"present_today"`
	AbsentToday     int     `json:"absent_today"`
	AttendanceRate  float64 `json:"attendance_rate"`
}
