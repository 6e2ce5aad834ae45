package matcher

import (
	"sync"

	"github.com/coder/hnsw"
	"github.com/google/uuid"

	"github.com/presenca-labs/presenca/internal/domain"
)

const hnswMaxNeighbors = 16

// HNSWIndex wraps a coder/hnsw graph as an Index for enrollment sets large
// enough that a linear scan hurts. It is rebuilt from a store snapshot after
// enrollment changes; individual nodes are not mutated in place.
type HNSWIndex struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[string]
}

// BuildHNSW builds an index from an enrollment snapshot.
func BuildHNSW(candidates []domain.Candidate) *HNSWIndex {
	g := hnsw.NewGraph[string]()
	g.M = hnswMaxNeighbors
	g.Ml = 1.0 / float64(hnswMaxNeighbors)
	g.Distance = hnsw.EuclideanDistance

	for _, c := range candidates {
		if len(c.Embedding) == 0 {
			continue
		}
		g.Add(hnsw.MakeNode(c.ID.String(), toFloat32(c.Embedding)))
	}

	return &HNSWIndex{graph: g}
}

// Add inserts or replaces one identity in the index.
func (h *HNSWIndex) Add(c domain.Candidate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.graph.Add(hnsw.MakeNode(c.ID.String(), toFloat32(c.Embedding)))
}

// Len reports the number of indexed identities.
func (h *HNSWIndex) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.graph.Len()
}

// Nearest implements Index. The reported distance is recomputed in float64
// over the original vectors' float32 projections, so indexed and linear
// matching agree on threshold comparisons up to float32 precision.
func (h *HNSWIndex) Nearest(probe []float64) (uuid.UUID, float64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.graph.Len() == 0 {
		return uuid.Nil, 0, false
	}

	q := toFloat32(probe)
	neighbors := h.graph.Search(q, 1)
	if len(neighbors) == 0 {
		return uuid.Nil, 0, false
	}

	id, err := uuid.Parse(neighbors[0].Key)
	if err != nil {
		return uuid.Nil, 0, false
	}

	d := float64(hnsw.EuclideanDistance(neighbors[0].Value, q))
	return id, d, true
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
