package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity represents an enrolled person. Exactly one reference embedding
// exists per identity; re-enrollment replaces it.
type Identity struct {
	ID          uuid.UUID `json:"id"`
	ExternalID  string    `json:"external_id"`
	DisplayName string    `json:"display_name"`
	Embedding   []float64 `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Candidate is one (identity, embedding) pair of the enrollment snapshot a
// matching pass runs against.
type Candidate struct {
	ID        uuid.UUID
	Embedding []float64
}
