package matcher

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/presenca-labs/presenca/internal/domain"
)

// DefaultThreshold is the maximum acceptable L2 distance between a probe and
// an enrolled embedding for a positive identification. 0.6 is the empirically
// tuned separation between same-identity and different-identity distances for
// the 128-d face descriptors this service is fed.
const DefaultThreshold = 0.6

// Matcher classifies probe embeddings against an enrollment snapshot using
// nearest-neighbor search under Euclidean distance. It is a pure component:
// no I/O, no state beyond its configuration, deterministic for equal inputs.
type Matcher struct {
	dim       int
	threshold float64
}

// New creates a Matcher for dim-length embeddings with the given acceptance
// threshold. A threshold <= 0 falls back to DefaultThreshold.
func New(dim int, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{dim: dim, threshold: threshold}
}

func (m *Matcher) Dim() int {
	return m.dim
}

func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match scans candidates for the nearest embedding to probe. Candidates with
// an exactly equal minimum distance resolve to the lexicographically smallest
// identity id, so the winner does not depend on enumeration order. An empty
// candidate set yields an unknown result with +Inf distance.
func (m *Matcher) Match(probe []float64, candidates []domain.Candidate) (domain.MatchResult, error) {
	if len(probe) != m.dim {
		return domain.MatchResult{}, domain.ErrDimensionMismatch.WithError(
			fmt.Errorf("probe has %d values, want %d", len(probe), m.dim))
	}

	bestDist := math.Inf(1)
	var bestID uuid.UUID
	found := false

	for _, c := range candidates {
		d := Distance(probe, c.Embedding)
		switch {
		case !found || d < bestDist:
			bestDist = d
			bestID = c.ID
			found = true
		case d == bestDist && c.ID.String() < bestID.String():
			bestID = c.ID
		}
	}

	if !found || bestDist > m.threshold {
		return domain.MatchResult{Known: false, Distance: bestDist}, nil
	}

	return domain.MatchResult{IdentityID: bestID, Known: true, Distance: bestDist}, nil
}

// Index is a pre-built nearest-neighbor structure over the enrollment set,
// for deployments too large for a linear scan. Implementations must be safe
// for concurrent Nearest calls.
type Index interface {
	// Nearest returns the closest enrolled identity and its distance to the
	// probe, or ok=false when the index is empty.
	Nearest(probe []float64) (id uuid.UUID, distance float64, ok bool)
}

// MatchIndexed is Match against a pre-built index instead of a linear scan.
// Threshold and validation semantics are identical.
func (m *Matcher) MatchIndexed(probe []float64, idx Index) (domain.MatchResult, error) {
	if len(probe) != m.dim {
		return domain.MatchResult{}, domain.ErrDimensionMismatch.WithError(
			fmt.Errorf("probe has %d values, want %d", len(probe), m.dim))
	}

	id, d, ok := idx.Nearest(probe)
	if !ok {
		return domain.MatchResult{Known: false, Distance: math.Inf(1)}, nil
	}
	if d > m.threshold {
		return domain.MatchResult{Known: false, Distance: d}, nil
	}

	return domain.MatchResult{IdentityID: id, Known: true, Distance: d}, nil
}

// Distance returns the Euclidean (L2) distance between two equal-length
// vectors.
func Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
