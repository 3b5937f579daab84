package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
	"moneytracker/internal/render"
	"moneytracker/internal/services"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		logger.WarnContext(ctx, "Failed to parse transaction body", applog.FieldError, err)
		BadRequestError(msgInvalidRequest).Write(w)
		return
	}

	amount, err := core.ParseAmount(parser.Get("amount"))
	if err != nil {
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}
	date, err := core.ParseDate(parser.Get("date"))
	if err != nil {
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}

	created, err := s.transactions.Add(ctx, core.Transaction{
		Description: parser.Get("description"),
		Amount:      amount,
		Type:        core.TransactionType(parser.Get("type")),
		Category:    parser.Get("category"),
		Date:        date,
	})
	if err != nil {
		if errors.Is(err, services.ErrPersist) {
			logger.ErrorContext(ctx, "Failed to save transaction", applog.FieldError, err)
			InternalServerError(msgSaveFailed).Write(w)
			return
		}
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}
	s.invalidateOverviews()

	b := NewHTMXResponse().
		TriggerTransactionChanged("created", created.ID).
		TriggerFormReset("transaction-form").
		TriggerSuccessNotification(msgTransactionAdded)
	s.writeFragment(w, r, b, "transaction-created", render.CreatedTransaction{
		Item:  render.NewTransactionItem(created),
		Count: len(s.transactions.List(ctx)),
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(r)
	if err != nil {
		UnprocessableEntityError(msgInvalidRequest).Write(w)
		return
	}

	if err := s.transactions.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			NotFoundError(msgTransactionMissing).Write(w)
		default:
			applog.FromContext(ctx).ErrorContext(ctx, "Failed to delete transaction",
				applog.FieldTransactionID, id, applog.FieldError, err)
			InternalServerError(msgSaveFailed).Write(w)
		}
		return
	}
	s.invalidateOverviews()

	b := NewHTMXResponse().
		TriggerTransactionChanged("deleted", id).
		TriggerSuccessNotification(msgTransactionDeleted)
	s.writeFragment(w, r, b, "transaction-deleted", len(s.transactions.List(ctx)))
}

// handleTransactionList renders the filtered, sorted list. Without an offset
// it returns the first page plus a sentinel for the lazy tail.
func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	offset := ParseOffset(query)

	all := s.transactions.List(ctx)
	filtered := ParseTransactionQuery(query).Apply(all)
	page := render.Paginate(render.TransactionItems(filtered), s.pages.TransactionsPageSize, offset)

	s.writeTemplate(w, r, "transactions", render.TransactionList{
		Page:      page,
		Sentinel:  sentinel("/ui/transactions", query, page.NextOffset, s.pages.TransactionsLazyDelay.Milliseconds()),
		Count:     len(filtered),
		HasAny:    len(all) > 0,
		ShowCount: offset == 0,
	})
}

// sentinel returns nil when there is no tail to fetch. The tail request
// repeats the current query so filters still apply.
func sentinel(path string, query url.Values, nextOffset int, delayMs int64) *render.Sentinel {
	if nextOffset <= 0 {
		return nil
	}
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("offset", strconv.Itoa(nextOffset))
	return &render.Sentinel{URL: path + "?" + q.Encode(), DelayMs: delayMs}
}
