package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"moneytracker/internal/adapters"
	"moneytracker/internal/amqp"
	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
)

// GoalService manages savings goals, including quick-save contributions.
type GoalService struct {
	deps Deps
	mu   sync.Mutex
}

func NewGoalService(deps Deps) *GoalService {
	return &GoalService{deps: deps.withDefaults(applog.ComponentGoals)}
}

func normalizeGoal(g core.SavingsGoal) core.SavingsGoal {
	g.Name = strings.TrimSpace(g.Name)
	g.Notes = strings.TrimSpace(g.Notes)
	return g
}

// Create validates g, assigns an id and appends it.
func (s *GoalService) Create(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	g = normalizeGoal(g)
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}

	s.mu.Lock()
	goals := s.deps.Storage.Savings(ctx)
	var lastID int64
	for _, existing := range goals {
		lastID = max(lastID, existing.ID)
	}
	g.ID = nextID(s.deps.Clock(), lastID)
	goals = append(goals, g)
	err := s.save(ctx, goals)
	s.mu.Unlock()
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("create goal: %w", err)
	}

	s.after(ctx, g, applog.OpCreate, amqp.ActionCreated)
	return g, nil
}

// Update replaces every editable field of the goal with id.
func (s *GoalService) Update(ctx context.Context, id int64, g core.SavingsGoal) (core.SavingsGoal, error) {
	g = normalizeGoal(g)
	g.ID = id
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	updated, err := s.mutate(ctx, id, func(*core.SavingsGoal) (core.SavingsGoal, error) { return g, nil })
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("update goal %d: %w", id, err)
	}
	s.after(ctx, updated, applog.OpUpdate, amqp.ActionUpdated)
	return updated, nil
}

// Contribute adds amount to the goal's saved total.
func (s *GoalService) Contribute(ctx context.Context, id int64, amount decimal.Decimal) (core.SavingsGoal, error) {
	if !amount.IsPositive() {
		return core.SavingsGoal{}, core.ErrInvalidAmount
	}
	if amount.GreaterThan(core.MaxAmount) {
		return core.SavingsGoal{}, core.ErrAmountTooLarge
	}
	updated, err := s.mutate(ctx, id, func(cur *core.SavingsGoal) (core.SavingsGoal, error) {
		next := *cur
		next.SavedAmount = cur.SavedAmount.Add(amount)
		return next, next.Validate()
	})
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("contribute to goal %d: %w", id, err)
	}
	s.after(ctx, updated, applog.OpContribute, amqp.ActionUpdated)
	return updated, nil
}

func (s *GoalService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	goals := s.deps.Storage.Savings(ctx)
	remaining := make([]core.SavingsGoal, 0, len(goals))
	var deleted *core.SavingsGoal
	for i := range goals {
		if goals[i].ID == id {
			deleted = &goals[i]
			continue
		}
		remaining = append(remaining, goals[i])
	}
	if deleted == nil {
		s.mu.Unlock()
		return fmt.Errorf("delete goal %d: %w", id, ErrNotFound)
	}
	err := s.save(ctx, remaining)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("delete goal %d: %w", id, err)
	}
	s.after(ctx, *deleted, applog.OpDelete, amqp.ActionDeleted)
	return nil
}

func (s *GoalService) Get(ctx context.Context, id int64) (core.SavingsGoal, error) {
	for _, g := range s.List(ctx) {
		if g.ID == id {
			return g, nil
		}
	}
	return core.SavingsGoal{}, fmt.Errorf("goal %d: %w", id, ErrNotFound)
}

func (s *GoalService) List(ctx context.Context) []core.SavingsGoal {
	return s.deps.Storage.Savings(ctx)
}

// Open returns goals that have not reached their target, the candidates
// offered by quick-save.
func (s *GoalService) Open(ctx context.Context) []core.SavingsGoal {
	var out []core.SavingsGoal
	for _, g := range s.List(ctx) {
		if g.Open() {
			out = append(out, g)
		}
	}
	return out
}

func (s *GoalService) mutate(ctx context.Context, id int64, fn func(*core.SavingsGoal) (core.SavingsGoal, error)) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := s.deps.Storage.Savings(ctx)
	for i := range goals {
		if goals[i].ID != id {
			continue
		}
		next, err := fn(&goals[i])
		if err != nil {
			return core.SavingsGoal{}, err
		}
		goals[i] = next
		if err := s.save(ctx, goals); err != nil {
			return core.SavingsGoal{}, err
		}
		return next, nil
	}
	return core.SavingsGoal{}, ErrNotFound
}

// save is called with mu held.
func (s *GoalService) save(ctx context.Context, goals []core.SavingsGoal) error {
	if !s.deps.Storage.Set(ctx, adapters.KeySavings, goals) {
		return ErrPersist
	}
	s.deps.Storage.Backup(ctx)
	return nil
}

func (s *GoalService) after(ctx context.Context, g core.SavingsGoal, op, action string) {
	s.deps.Logger.InfoContext(ctx, "Savings goal changed",
		applog.NewFields().WithGoal(g).WithOperation(op).ToSlice()...)
	s.deps.publish(ctx, amqp.KindGoal, action, g.ID)
	s.deps.scheduleUpdate()
}
