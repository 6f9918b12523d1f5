package equb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/platform/storage"
	"github.com/abenezerg/pluszone/internal/schedule"
	"github.com/abenezerg/pluszone/pkg/logger"
)

// Service manages the equb collection.
type Service struct {
	mu    sync.RWMutex
	store storage.KV
	log   *logger.Logger

	groups []*Group
}

// Input carries the equb form fields.
type Input struct {
	Name               string
	MembersCount       int
	ContributionAmount decimal.Decimal
	Frequency          schedule.Rule
	StartDate          time.Time
	CurrentRound       int
	MyTurnIndex        int
	JoinedAtRound      int
}

// NewService loads the persisted equb collection.
func NewService(ctx context.Context, store storage.KV, log *logger.Logger) (*Service, error) {
	s := &Service{
		store: store,
		log:   log.WithField("component", "equb"),
	}
	if _, err := store.Get(ctx, storage.KeyEqubs, &s.groups); err != nil {
		return nil, fmt.Errorf("load equbs: %w", err)
	}
	return s, nil
}

// Create registers a new circle. A fresh circle starts ACTIVE at round 1
// unless the user joined mid-cycle.
func (s *Service) Create(ctx context.Context, input Input) (*Group, error) {
	g, err := fromInput(input)
	if err != nil {
		return nil, err
	}
	g.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = append([]*Group{g}, s.groups...)
	s.persist(ctx)

	s.log.Info("equb created", "id", g.ID, "name", g.Name, "members", g.MembersCount)
	return cloneGroup(g), nil
}

// Update replaces a circle's fields.
func (s *Service) Update(ctx context.Context, id string, input Input) (*Group, error) {
	g, err := fromInput(input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	g.ID = id
	s.groups[idx] = g
	s.persist(ctx)

	s.log.Info("equb updated", "id", id)
	return cloneGroup(g), nil
}

// SettleRound records that the current round's contribution has been made
// and advances the circle. Reaching the member count completes the circle.
// This is the only action that mutates the round counter; roadmap marks
// never call it implicitly.
func (s *Service) SettleRound(ctx context.Context, id string) (*Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	g := s.groups[idx]
	if g.Status == StatusCompleted {
		return nil, ErrCompleted
	}

	if g.CurrentRound < g.MembersCount {
		g.CurrentRound++
	}
	if g.CurrentRound >= g.MembersCount {
		g.Status = StatusCompleted
	}
	s.persist(ctx)

	s.log.Info("equb round settled", "id", id, "round", g.CurrentRound, "status", g.Status)
	return cloneGroup(g), nil
}

// Delete removes a circle.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.groups = append(s.groups[:idx], s.groups[idx+1:]...)
	s.persist(ctx)

	s.log.Info("equb deleted", "id", id)
	return nil
}

// Get returns a copy of one circle.
func (s *Service) Get(id string) (*Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	return cloneGroup(s.groups[idx]), nil
}

// List returns copies of all circles, newest first.
func (s *Service) List() []*Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Group, len(s.groups))
	for i, g := range s.groups {
		out[i] = cloneGroup(g)
	}
	return out
}

func (s *Service) indexOf(id string) int {
	for i, g := range s.groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) persist(ctx context.Context) {
	if err := s.store.Set(ctx, storage.KeyEqubs, s.groups); err != nil {
		s.log.Error("persist equbs failed", "error", err)
	}
}

func fromInput(input Input) (*Group, error) {
	if input.Name == "" {
		return nil, ErrMissingName
	}
	if input.MembersCount < 1 {
		return nil, ErrInvalidMembers
	}
	if input.ContributionAmount.Sign() <= 0 {
		return nil, ErrInvalidContribution
	}
	if !input.Frequency.Valid() {
		return nil, ErrInvalidFrequency
	}

	round := input.CurrentRound
	if round == 0 {
		round = 1
	}
	if round < 1 || round > input.MembersCount {
		return nil, ErrInvalidRound
	}
	joined := input.JoinedAtRound
	if joined < 1 {
		joined = 1
	}

	g := &Group{
		Name:               input.Name,
		MembersCount:       input.MembersCount,
		ContributionAmount: input.ContributionAmount,
		Frequency:          input.Frequency,
		StartDate:          input.StartDate,
		CurrentRound:       round,
		MyTurnIndex:        input.MyTurnIndex,
		JoinedAtRound:      joined,
		Status:             StatusActive,
	}
	if g.CurrentRound >= g.MembersCount {
		g.Status = StatusCompleted
	}
	return g, nil
}

func cloneGroup(g *Group) *Group {
	cp := *g
	return &cp
}
