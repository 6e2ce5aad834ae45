// Package ledger provides the in-memory attendance ledger. It enforces the
// at-most-one-event-per-identity-per-day invariant: the check-and-create in
// TryRecord is atomic under a single mutex, which at classroom scale beats
// any per-key sharding scheme for simplicity.
package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/presenca-labs/presenca/internal/domain"
)

type key struct {
	identity uuid.UUID
	day      domain.Day
}

type Memory struct {
	mu     sync.RWMutex
	loc    *time.Location
	events map[key]*domain.AttendanceEvent
}

// NewMemory creates a ledger that derives day keys in loc.
func NewMemory(loc *time.Location) *Memory {
	if loc == nil {
		loc = time.UTC
	}
	return &Memory{
		loc:    loc,
		events: make(map[key]*domain.AttendanceEvent),
	}
}

// TryRecord atomically records attendance for the identity on the day of ts.
// If an event already exists for that (identity, day), no new event is
// created and the existing one is returned with Created=false. Events carry
// a snapshot of the identity's descriptive fields.
func (l *Memory) TryRecord(ctx context.Context, identity *domain.Identity, ts time.Time, confidence int) (*domain.RecordOutcome, error) {
	day := domain.DayOf(ts, l.loc)
	k := key{identity: identity.ID, day: day}

	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.events[k]; ok {
		cp := *existing
		return &domain.RecordOutcome{Created: false, Event: &cp}, nil
	}

	ev := &domain.AttendanceEvent{
		ID:          uuid.New(),
		IdentityID:  identity.ID,
		ExternalID:  identity.ExternalID,
		DisplayName: identity.DisplayName,
		Day:         day,
		RecordedAt:  ts,
		Confidence:  confidence,
	}
	l.events[k] = ev

	cp := *ev
	return &domain.RecordOutcome{Created: true, Event: &cp}, nil
}

// ListForDay returns all events for the day, ordered by recording time.
func (l *Memory) ListForDay(ctx context.Context, day domain.Day) ([]domain.AttendanceEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.AttendanceEvent
	for k, ev := range l.events {
		if k.day == day {
			out = append(out, *ev)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})

	return out, nil
}

// ListForIdentity returns the identity's events, newest first, capped at
// limit. Events survive deletion of the identity.
func (l *Memory) ListForIdentity(ctx context.Context, id uuid.UUID, limit int) ([]domain.AttendanceEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.AttendanceEvent
	for k, ev := range l.events {
		if k.identity == id {
			out = append(out, *ev)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// IsPresent reports whether an event exists for (id, day).
func (l *Memory) IsPresent(ctx context.Context, id uuid.UUID, day domain.Day) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.events[key{identity: id, day: day}]
	return ok, nil
}

// CountForDay reports the number of events for the day.
func (l *Memory) CountForDay(ctx context.Context, day domain.Day) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for k := range l.events {
		if k.day == day {
			n++
		}
	}
	return n, nil
}
