package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/presenca-labs/presenca/internal/domain"
)

// IdentityRepository is the durable embedding store. It mirrors the
// in-memory store's contract: one embedding per identity, external ids
// unique, candidate snapshots for matching.
type IdentityRepository struct {
	pool PgxPool
	dim  int
}

func NewIdentityRepository(pool PgxPool, dim int) *IdentityRepository {
	return &IdentityRepository{pool: pool, dim: dim}
}

func (r *IdentityRepository) Put(ctx context.Context, identity *domain.Identity) error {
	if len(identity.Embedding) != r.dim {
		return domain.ErrDimensionMismatch.WithError(
			fmt.Errorf("embedding has %d values, store dimension is %d", len(identity.Embedding), r.dim))
	}

	query := `
		INSERT INTO identities (id, external_id, display_name, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET external_id = EXCLUDED.external_id,
		    display_name = EXCLUDED.display_name,
		    embedding = EXCLUDED.embedding,
		    updated_at = NOW()
		RETURNING created_at, updated_at
	`

	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		identity.ID,
		identity.ExternalID,
		identity.DisplayName,
		toVector(identity.Embedding),
	).Scan(&identity.CreatedAt, &identity.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdentityExists
		}
		return fmt.Errorf("put identity: %w", err)
	}

	return nil
}

func (r *IdentityRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	query := `
		SELECT id, external_id, display_name, embedding, created_at, updated_at
		FROM identities
		WHERE id = $1
	`

	var identity domain.Identity
	var embedding pgvector.Vector

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&identity.ID,
		&identity.ExternalID,
		&identity.DisplayName,
		&embedding,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}

	identity.Embedding = fromVector(embedding)
	return &identity, nil
}

func (r *IdentityRepository) Remove(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM identities
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("remove identity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}

func (r *IdentityRepository) List(ctx context.Context) ([]*domain.Identity, error) {
	query := `
		SELECT id, external_id, display_name, embedding, created_at, updated_at
		FROM identities
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	var out []*domain.Identity
	for rows.Next() {
		var identity domain.Identity
		var embedding pgvector.Vector
		if err := rows.Scan(
			&identity.ID,
			&identity.ExternalID,
			&identity.DisplayName,
			&embedding,
			&identity.CreatedAt,
			&identity.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		identity.Embedding = fromVector(embedding)
		out = append(out, &identity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}

	return out, nil
}

// Candidates loads the (id, embedding) pairs for one matching pass. The
// result is a point-in-time snapshot by construction: it is a fully
// materialized copy, unaffected by later writes.
func (r *IdentityRepository) Candidates(ctx context.Context) ([]domain.Candidate, error) {
	query := `
		SELECT id, embedding
		FROM identities
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		var embedding pgvector.Vector
		if err := rows.Scan(&c.ID, &embedding); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.Embedding = fromVector(embedding)
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	return out, nil
}

func (r *IdentityRepository) Count(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM identities
	`

	var n int
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count identities: %w", err)
	}

	return n, nil
}
