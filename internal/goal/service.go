package goal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abenezerg/pluszone/internal/ledger"
	"github.com/abenezerg/pluszone/internal/platform/storage"
	"github.com/abenezerg/pluszone/internal/schedule"
	"github.com/abenezerg/pluszone/pkg/logger"
)

// Service manages the goal collection.
type Service struct {
	mu    sync.RWMutex
	store storage.KV
	log   *logger.Logger

	goals []*Goal
}

// Input carries the goal form fields. ContributionAmount is the manual
// override; it only takes effect while no driving field changes.
type Input struct {
	Title                 string
	Type                  Type
	TargetAmount          decimal.Decimal
	CurrentAmount         decimal.Decimal
	StartDate             time.Time
	Deadline              time.Time
	FundingSource         ledger.Channel
	ContributionFrequency schedule.Rule
	ContributionAmount    decimal.Decimal
}

// NewService loads the persisted goal collection.
func NewService(ctx context.Context, store storage.KV, log *logger.Logger) (*Service, error) {
	s := &Service{
		store: store,
		log:   log.WithField("component", "goal"),
	}
	if _, err := store.Get(ctx, storage.KeyGoals, &s.goals); err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}
	return s, nil
}

// Create registers a new goal. The recommended contribution is planned
// immediately when the inputs allow it; otherwise the caller's value stands.
func (s *Service) Create(ctx context.Context, input Input) (*Goal, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	g := fromInput(input)
	g.ID = uuid.NewString()
	if recommended, ok := RecommendedContribution(g.TargetAmount, g.CurrentAmount, g.StartDate, g.Deadline, g.ContributionFrequency); ok {
		g.ContributionAmount = recommended
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append([]*Goal{g}, s.goals...)
	s.persist(ctx)

	s.log.Info("goal created", "id", g.ID, "title", g.Title, "contribution", g.ContributionAmount)
	return cloneGoal(g), nil
}

// Update replaces a goal's fields. The planner reruns only when a driving
// field (target, current, deadline, frequency) changed; otherwise the
// submitted contribution amount is kept as a manual override. When the
// planner cannot produce a sane value the previous one is frozen in place.
func (s *Service) Update(ctx context.Context, id string, input Input) (*Goal, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	prev := s.goals[idx]

	g := fromInput(input)
	g.ID = id

	if drivingFieldsChanged(prev, g) {
		if recommended, ok := RecommendedContribution(g.TargetAmount, g.CurrentAmount, g.StartDate, g.Deadline, g.ContributionFrequency); ok {
			g.ContributionAmount = recommended
		} else {
			g.ContributionAmount = prev.ContributionAmount
		}
	}

	s.goals[idx] = g
	s.persist(ctx)

	s.log.Info("goal updated", "id", id, "contribution", g.ContributionAmount)
	return cloneGoal(g), nil
}

// Delete removes a goal.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.goals = append(s.goals[:idx], s.goals[idx+1:]...)
	s.persist(ctx)

	s.log.Info("goal deleted", "id", id)
	return nil
}

// Get returns a copy of one goal.
func (s *Service) Get(id string) (*Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	return cloneGoal(s.goals[idx]), nil
}

// List returns copies of all goals, newest first.
func (s *Service) List() []*Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Goal, len(s.goals))
	for i, g := range s.goals {
		out[i] = cloneGoal(g)
	}
	return out
}

func drivingFieldsChanged(prev, next *Goal) bool {
	return !prev.TargetAmount.Equal(next.TargetAmount) ||
		!prev.CurrentAmount.Equal(next.CurrentAmount) ||
		!prev.Deadline.Equal(next.Deadline) ||
		prev.ContributionFrequency != next.ContributionFrequency
}

func (s *Service) indexOf(id string) int {
	for i, g := range s.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) persist(ctx context.Context) {
	if err := s.store.Set(ctx, storage.KeyGoals, s.goals); err != nil {
		s.log.Error("persist goals failed", "error", err)
	}
}

func validate(input Input) error {
	if input.Title == "" {
		return ErrMissingTitle
	}
	if !input.Type.Valid() {
		return ErrInvalidType
	}
	if input.TargetAmount.Sign() <= 0 {
		return ErrInvalidTarget
	}
	if input.CurrentAmount.Sign() < 0 {
		return ErrNegativeCurrent
	}
	if !input.FundingSource.Valid() {
		return ErrInvalidChannel
	}
	switch input.ContributionFrequency {
	case schedule.Daily, schedule.Weekly, schedule.Monthly:
	default:
		return ErrInvalidFrequency
	}
	return nil
}

func fromInput(input Input) *Goal {
	return &Goal{
		Title:                 input.Title,
		Type:                  input.Type,
		TargetAmount:          input.TargetAmount,
		CurrentAmount:         input.CurrentAmount,
		StartDate:             input.StartDate,
		Deadline:              input.Deadline,
		FundingSource:         input.FundingSource,
		ContributionFrequency: input.ContributionFrequency,
		ContributionAmount:    input.ContributionAmount,
	}
}

func cloneGoal(g *Goal) *Goal {
	cp := *g
	return &cp
}
