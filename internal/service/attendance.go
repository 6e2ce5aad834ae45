package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/presenca-labs/presenca/internal/domain"
	"github.com/presenca-labs/presenca/internal/matcher"
)

// historyLimit caps per-identity history reads.
const historyLimit = 100

// EmbeddingStore holds one reference embedding per enrolled identity.
type EmbeddingStore interface {
	Put(ctx context.Context, identity *domain.Identity) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	Remove(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Identity, error)
	Candidates(ctx context.Context) ([]domain.Candidate, error)
	Count(ctx context.Context) (int, error)
}

// AttendanceLedger enforces at-most-one attendance event per identity per day.
type AttendanceLedger interface {
	TryRecord(ctx context.Context, identity *domain.Identity, ts time.Time, confidence int) (*domain.RecordOutcome, error)
	ListForDay(ctx context.Context, day domain.Day) ([]domain.AttendanceEvent, error)
	ListForIdentity(ctx context.Context, id uuid.UUID, limit int) ([]domain.AttendanceEvent, error)
	IsPresent(ctx context.Context, id uuid.UUID, day domain.Day) (bool, error)
	CountForDay(ctx context.Context, day domain.Day) (int, error)
}

// AttendanceService orchestrates recognition attempts: probe -> matcher ->
// ledger, translating the ledger's duplicate rejection into a caller-visible
// outcome. All time handling goes through the injected clock and facility
// location so tests can pin both.
type AttendanceService struct {
	store   EmbeddingStore
	ledger  AttendanceLedger
	matcher *matcher.Matcher
	loc     *time.Location
	clock   func() time.Time
}

func NewAttendanceService(store EmbeddingStore, ledger AttendanceLedger, m *matcher.Matcher, loc *time.Location) *AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceService{
		store:   store,
		ledger:  ledger,
		matcher: m,
		loc:     loc,
		clock:   time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *AttendanceService) WithClock(clock func() time.Time) *AttendanceService {
	s.clock = clock
	return s
}

// EnrollmentInput carries the fields of an enrollment request. The embedding
// comes from the external extraction capability; by the time it reaches the
// core it is just a vector.
type EnrollmentInput struct {
	ExternalID  string
	DisplayName string
	Embedding   []float64
}

// Enroll registers a new identity with its reference embedding.
func (s *AttendanceService) Enroll(ctx context.Context, input EnrollmentInput) (*domain.Identity, error) {
	if strings.TrimSpace(input.ExternalID) == "" {
		return nil, domain.ErrValidationFailed.WithError(errors.New("external_id is required"))
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		return nil, domain.ErrValidationFailed.WithError(errors.New("display_name is required"))
	}

	now := s.clock()
	identity := &domain.Identity{
		ID:          uuid.New(),
		ExternalID:  strings.TrimSpace(input.ExternalID),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Embedding:   input.Embedding,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Put(ctx, identity); err != nil {
		return nil, err
	}

	return identity, nil
}

// Identity returns one enrolled identity.
func (s *AttendanceService) Identity(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	return s.store.Get(ctx, id)
}

// Identities lists all enrolled identities.
func (s *AttendanceService) Identities(ctx context.Context) ([]*domain.Identity, error) {
	return s.store.List(ctx)
}

// DeleteIdentity removes the identity and its embedding. Ledger entries are
// left untouched: they carry their own snapshot of the descriptive fields
// and remain readable as history.
func (s *AttendanceService) DeleteIdentity(ctx context.Context, id uuid.UUID) error {
	return s.store.Remove(ctx, id)
}

// Registered reports the number of enrolled identities.
func (s *AttendanceService) Registered(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// MarkByEmbedding classifies the probe against the current enrollment set
// and, on a match, attempts to record attendance for today. At most one
// ledger mutation happens per call, and only on the marked branch.
func (s *AttendanceService) MarkByEmbedding(ctx context.Context, probe []float64) (*domain.ServiceOutcome, error) {
	now := s.clock()

	candidates, err := s.store.Candidates(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.matcher.Match(probe, candidates)
	if err != nil {
		return nil, err
	}

	if !res.Known {
		return &domain.ServiceOutcome{
			Kind:            domain.OutcomeNotRecognized,
			NearestDistance: res.Distance,
		}, nil
	}

	identity, err := s.store.Get(ctx, res.IdentityID)
	if errors.Is(err, domain.ErrIdentityNotFound) {
		// Deleted between snapshot and lookup; the probe no longer matches
		// anyone who is enrolled.
		return &domain.ServiceOutcome{
			Kind:            domain.OutcomeNotRecognized,
			NearestDistance: res.Distance,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	rec, err := s.ledger.TryRecord(ctx, identity, now, res.Confidence())
	if err != nil {
		return nil, err
	}

	if !rec.Created {
		return &domain.ServiceOutcome{
			Kind:       domain.OutcomeDuplicate,
			Identity:   identity,
			Event:      rec.Event,
			Confidence: rec.Event.Confidence,
		}, nil
	}

	return &domain.ServiceOutcome{
		Kind:       domain.OutcomeMarked,
		Identity:   identity,
		Event:      rec.Event,
		Confidence: res.Confidence(),
	}, nil
}

// ListForDay returns the day's attendance events.
func (s *AttendanceService) ListForDay(ctx context.Context, day domain.Day) ([]domain.AttendanceEvent, error) {
	return s.ledger.ListForDay(ctx, day)
}

// History returns an identity's attendance events, newest first. It works
// for deleted identities too; history outlives enrollment.
func (s *AttendanceService) History(ctx context.Context, id uuid.UUID) ([]domain.AttendanceEvent, error) {
	return s.ledger.ListForIdentity(ctx, id, historyLimit)
}

// IsPresent reports whether the identity has an event for the day.
func (s *AttendanceService) IsPresent(ctx context.Context, id uuid.UUID, day domain.Day) (bool, error) {
	return s.ledger.IsPresent(ctx, id, day)
}

// ComputeStats summarizes a day. Absent is clamped at zero: a present count
// above the registered count means events exist for since-deleted
// identities, which is a data-consistency quirk, not a failure.
func (s *AttendanceService) ComputeStats(ctx context.Context, day domain.Day) (*domain.AttendanceStats, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	present, err := s.ledger.CountForDay(ctx, day)
	if err != nil {
		return nil, err
	}

	absent := total - present
	if absent < 0 {
		absent = 0
	}

	rate := 0.0
	if total > 0 {
		rate = math.Round(float64(present) / float64(total) * 100)
	}

	return &domain.AttendanceStats{
		TotalRegistered: total,
		PresentToday:    present,
		AbsentToday:     absent,
		AttendanceRate:  rate,
	}, nil
}

// Today returns the current day key in the facility time zone.
func (s *AttendanceService) Today() domain.Day {
	return domain.DayOf(s.clock(), s.loc)
}
