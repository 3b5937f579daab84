package services

import (
	"context"
	"time"

	"moneytracker/internal/adapters"
	"moneytracker/internal/amqp"
	applog "moneytracker/internal/log"
	"moneytracker/internal/scheduler"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	// ChartRefreshDelay lets the new palette apply before the chart redraws.
	ChartRefreshDelay = 500 * time.Millisecond
)

type ThemeService struct {
	deps          Deps
	onToggle      func(ctx context.Context)
	onToggleDelay time.Duration
}

// NewThemeService builds the service. onToggle, if set, runs
// ChartRefreshDelay after each successful toggle.
func NewThemeService(deps Deps, onToggle func(ctx context.Context)) *ThemeService {
	return &ThemeService{
		deps:          deps.withDefaults(applog.ComponentTheme),
		onToggle:      onToggle,
		onToggleDelay: ChartRefreshDelay,
	}
}

// Get returns the stored theme. Unknown values read as light.
func (s *ThemeService) Get(ctx context.Context) string {
	if s.deps.Storage.Theme(ctx) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle flips light and dark and persists the result.
func (s *ThemeService) Toggle(ctx context.Context) (string, error) {
	next := ThemeDark
	if s.Get(ctx) == ThemeDark {
		next = ThemeLight
	}
	if !s.deps.Storage.Set(ctx, adapters.KeyTheme, next) {
		return s.Get(ctx), ErrPersist
	}

	s.deps.Logger.InfoContext(ctx, "Theme changed",
		applog.FieldTheme, next, applog.FieldOperation, applog.OpToggle)
	s.deps.publish(ctx, amqp.KindTheme, amqp.ActionUpdated, 0)

	if s.onToggle != nil {
		// The request context ends with the response; the refresh must outlive it.
		bg := context.WithoutCancel(ctx)
		scheduler.After(bg, s.onToggleDelay, func() { s.onToggle(bg) })
	}
	return next, nil
}
