package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
	"moneytracker/internal/render"
	"moneytracker/internal/services"
)

// parseGoal reads the goal form.
func parseGoal(p *RequestBodyParser) (core.SavingsGoal, error) {
	target, err := core.ParseAmount(p.Get("targetAmount"))
	if err != nil {
		return core.SavingsGoal{}, err
	}
	saved, err := parseSaved(p.Get("savedAmount"))
	if err != nil {
		return core.SavingsGoal{}, err
	}
	return core.SavingsGoal{
		Name:         p.Get("name"),
		Category:     p.Get("category"),
		TargetAmount: target,
		SavedAmount:  saved,
		Notes:        p.Get("notes"),
	}, nil
}

// parseSaved accepts an empty or zero value as nothing saved yet.
func parseSaved(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
	switch {
	case err != nil:
		return decimal.Zero, core.ErrInvalidAmount
	case d.IsNegative():
		return decimal.Zero, core.ErrNegativeSaved
	case d.IsZero():
		return decimal.Zero, nil
	}
	return core.ParseAmount(v)
}

// goalError writes the response for a failed goal mutation.
func goalError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		NotFoundError(msgGoalMissing).Write(w)
	case errors.Is(err, services.ErrPersist):
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to save goal", applog.FieldError, err)
		InternalServerError(msgSaveFailed).Write(w)
	default:
		UnprocessableEntityError(validationMessage(err)).Write(w)
	}
}

func parseBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Failed to parse request body", applog.FieldError, err)
		BadRequestError(msgInvalidRequest).Write(w)
		return nil, false
	}
	return parser, true
}

func (s *Server) handleGoalList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	offset := ParseOffset(query)
	page := render.Paginate(render.GoalCards(s.goals.List(r.Context())), s.pages.GoalsPageSize, offset)
	s.writeTemplate(w, r, "goals", render.GoalList{
		Page:     page,
		Sentinel: sentinel("/ui/goals", nil, page.NextOffset, s.pages.GoalsLazyDelay.Milliseconds()),
	})
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	parser, ok := parseBody(w, r)
	if !ok {
		return
	}
	g, err := parseGoal(parser)
	if err != nil {
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}
	created, err := s.goals.Create(r.Context(), g)
	if err != nil {
		goalError(w, r, err)
		return
	}
	b := NewHTMXResponse().
		TriggerGoalChanged("created", created.ID).
		TriggerFormReset("savings-form").
		TriggerSuccessNotification(msgGoalCreated)
	s.writeFragment(w, r, b, "goal-created", render.NewGoalCard(created))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		UnprocessableEntityError(msgInvalidRequest).Write(w)
		return
	}
	parser, ok := parseBody(w, r)
	if !ok {
		return
	}
	g, err := parseGoal(parser)
	if err != nil {
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}
	updated, err := s.goals.Update(r.Context(), id, g)
	if err != nil {
		goalError(w, r, err)
		return
	}
	b := NewHTMXResponse().
		TriggerGoalChanged("updated", id).
		TriggerSuccessNotification(msgGoalUpdated)
	s.writeFragment(w, r, b, "goal-card", render.NewGoalCard(updated))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		UnprocessableEntityError(msgInvalidRequest).Write(w)
		return
	}
	if err := s.goals.Delete(r.Context(), id); err != nil {
		goalError(w, r, err)
		return
	}
	NewHTMXResponse().
		TriggerGoalChanged("deleted", id).
		TriggerSuccessNotification(msgGoalDeleted).
		Write(w)
}

// handleContribute adds money to the goal named in the path and re-renders its card.
func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		UnprocessableEntityError(msgInvalidRequest).Write(w)
		return
	}
	parser, ok := parseBody(w, r)
	if !ok {
		return
	}
	amount, err := core.ParseAmount(parser.Get("amount"))
	if err != nil {
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}
	updated, err := s.goals.Contribute(r.Context(), id, amount)
	if err != nil {
		goalError(w, r, err)
		return
	}
	b := NewHTMXResponse().
		TriggerGoalChanged("updated", id).
		TriggerSuccessNotification("Menabung " + core.FormatRupiah(amount))
	s.writeFragment(w, r, b, "goal-card", render.NewGoalCard(updated))
}

// handleQuickSave is the quick-save widget: the goal comes from the body and
// the whole goal list reloads afterwards.
func (s *Server) handleQuickSave(w http.ResponseWriter, r *http.Request) {
	parser, ok := parseBody(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(parser.Get("goal"), 10, 64)
	if err != nil || id <= 0 {
		UnprocessableEntityError(msgQuickSaveInvalid).Write(w)
		return
	}
	amount, err := core.ParseAmount(parser.Get("amount"))
	if err != nil {
		UnprocessableEntityError(msgQuickSaveInvalid).Write(w)
		return
	}
	if _, err := s.goals.Contribute(r.Context(), id, amount); err != nil {
		goalError(w, r, err)
		return
	}
	NewHTMXResponse().
		TriggerGoalChanged("updated", id).
		TriggerGoalsReload().
		TriggerFormReset("quick-save-form").
		TriggerSuccessNotification("Menabung " + core.FormatRupiah(amount)).
		Write(w)
}

func (s *Server) handleQuickSaveOptions(w http.ResponseWriter, r *http.Request) {
	s.writeTemplate(w, r, "quick-save-options", render.QuickSaveOptions(s.goals.Open(r.Context())))
}
