package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/presenca-labs/presenca/internal/domain"
)

// AttendanceRepository is the durable attendance ledger. The
// (identity_id, day) unique constraint makes the check-and-create in
// TryRecord atomic across processes: INSERT ... ON CONFLICT DO NOTHING
// either wins the slot or affects zero rows.
type AttendanceRepository struct {
	pool PgxPool
	loc  *time.Location
}

func NewAttendanceRepository(pool PgxPool, loc *time.Location) *AttendanceRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceRepository{pool: pool, loc: loc}
}

func (r *AttendanceRepository) TryRecord(ctx context.Context, identity *domain.Identity, ts time.Time, confidence int) (*domain.RecordOutcome, error) {
	day := domain.DayOf(ts, r.loc)

	ev := &domain.AttendanceEvent{
		ID:          uuid.New(),
		IdentityID:  identity.ID,
		ExternalID:  identity.ExternalID,
		DisplayName: identity.DisplayName,
		Day:         day,
		RecordedAt:  ts,
		Confidence:  confidence,
	}

	query := `
		INSERT INTO attendance_events (id, identity_id, external_id, display_name, day, recorded_at, confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (identity_id, day) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query,
		ev.ID,
		ev.IdentityID,
		ev.ExternalID,
		ev.DisplayName,
		string(ev.Day),
		ev.RecordedAt,
		ev.Confidence,
	)
	if err != nil {
		return nil, fmt.Errorf("record attendance: %w", err)
	}

	if result.RowsAffected() == 1 {
		return &domain.RecordOutcome{Created: true, Event: ev}, nil
	}

	// Lost the slot to an earlier or concurrent attempt; surface the winner.
	existing, err := r.getForDay(ctx, identity.ID, day)
	if err != nil {
		return nil, err
	}

	return &domain.RecordOutcome{Created: false, Event: existing}, nil
}

func (r *AttendanceRepository) getForDay(ctx context.Context, identityID uuid.UUID, day domain.Day) (*domain.AttendanceEvent, error) {
	query := `
		SELECT id, identity_id, external_id, display_name, day, recorded_at, confidence
		FROM attendance_events
		WHERE identity_id = $1 AND day = $2
	`

	row := r.pool.QueryRow(ctx, query, identityID, string(day))
	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get attendance event: %w", err)
	}

	return ev, nil
}

func (r *AttendanceRepository) ListForDay(ctx context.Context, day domain.Day) ([]domain.AttendanceEvent, error) {
	query := `
		SELECT id, identity_id, external_id, display_name, day, recorded_at, confidence
		FROM attendance_events
		WHERE day = $1
		ORDER BY recorded_at
	`

	rows, err := r.pool.Query(ctx, query, string(day))
	if err != nil {
		return nil, fmt.Errorf("list attendance for day: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *AttendanceRepository) ListForIdentity(ctx context.Context, id uuid.UUID, limit int) ([]domain.AttendanceEvent, error) {
	query := `
		SELECT id, identity_id, external_id, display_name, day, recorded_at, confidence
		FROM attendance_events
		WHERE identity_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, id, limit)
	if err != nil {
		return nil, fmt.Errorf("list attendance for identity: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *AttendanceRepository) IsPresent(ctx context.Context, id uuid.UUID, day domain.Day) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_events
			WHERE identity_id = $1 AND day = $2
		)
	`

	var present bool
	if err := r.pool.QueryRow(ctx, query, id, string(day)).Scan(&present); err != nil {
		return false, fmt.Errorf("check presence: %w", err)
	}

	return present, nil
}

func (r *AttendanceRepository) CountForDay(ctx context.Context, day domain.Day) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM attendance_events
		WHERE day = $1
	`

	var n int
	if err := r.pool.QueryRow(ctx, query, string(day)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count attendance for day: %w", err)
	}

	return n, nil
}

func scanEvent(row pgx.Row) (*domain.AttendanceEvent, error) {
	var ev domain.AttendanceEvent
	var day time.Time
	if err := row.Scan(
		&ev.ID,
		&ev.IdentityID,
		&ev.ExternalID,
		&ev.DisplayName,
		&day,
		&ev.RecordedAt,
		&ev.Confidence,
	); err != nil {
		return nil, err
	}
	ev.Day = domain.Day(day.Format("2006-01-02"))
	return &ev, nil
}

func collectEvents(rows pgx.Rows) ([]domain.AttendanceEvent, error) {
	var out []domain.AttendanceEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance event: %w", err)
		}
		out = append(out, *ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read attendance events: %w", err)
	}

	return out, nil
}
