package domain

// OutcomeKind tags the result of a recognition attempt. Duplicate and
// NotRecognized are normal business outcomes, not errors.
type OutcomeKind string

const (
	OutcomeMarked        OutcomeKind = "marked"
	OutcomeDuplicate     OutcomeKind = "duplicate"
	OutcomeNotRecognized OutcomeKind = "not_recognized"
)

// ServiceOutcome is the caller-visible result of a recognition attempt.
// Identity and Event are set for Marked and Duplicate. NearestDistance is
// set for NotRecognized and carries the closest miss for diagnostics.
type ServiceOutcome struct {
	Kind            OutcomeKind
	Identity        *Identity
	Event           *AttendanceEvent
	Confidence      int
	NearestDistance float64
}
