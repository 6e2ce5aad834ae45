package domain

import (
	"math"

	"github.com/google/uuid"
)

// MatchResult is the outcome of classifying a probe embedding against the
// enrollment set. Known is false when no enrolled embedding was within the
// acceptance threshold; Distance then carries the nearest miss (+Inf for an
// empty enrollment set) so callers can inspect how close it was.
type MatchResult struct {
	IdentityID uuid.UUID
	Known      bool
	Distance   float64
}

// Confidence converts the match distance into the user-facing percentage:
// round((1-distance)*100), clamped to [0,100].
func (m MatchResult) Confidence() int {
	c := math.Round((1 - m.Distance) * 100)
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > 100:
		return 100
	}
	return int(c)
}
