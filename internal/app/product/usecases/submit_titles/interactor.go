package submit_titles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-editor/internal/app/product/contracts"
	"github.com/light-bringer/procat-editor/internal/app/product/domain"
	"github.com/light-bringer/procat-editor/internal/app/product/session"
	"github.com/light-bringer/procat-editor/internal/observability"
	"github.com/light-bringer/procat-editor/internal/pkg/notify"
)

// Outcome is the user-facing result of a submission.
type Outcome string

const (
	OutcomeNoChanges Outcome = "no_changes"
	OutcomeUpdated   Outcome = "updated"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// Response describes a submission attempt.
type Response struct {
	Outcome      Outcome
	Submitted    int
	Notification notify.Notification
}

// Interactor handles the submit titles use case.
type Interactor struct {
	store    contracts.RecordStore
	editor   *session.Editor
	notifier *notify.Queue
	metrics  *observability.Metrics
	logger   *zap.Logger
	timeout  time.Duration
}

// NewInteractor creates a new submit titles interactor.
func NewInteractor(
	store contracts.RecordStore,
	editor *session.Editor,
	notifier *notify.Queue,
	metrics *observability.Metrics,
	logger *zap.Logger,
	timeout time.Duration,
) *Interactor {
	return &Interactor{
		store:    store,
		editor:   editor,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		timeout:  timeout,
	}
}

// Execute sends the modified records to the record store.
//
// An empty diff is reported as OutcomeNoChanges without a network call. When
// the store rejects the request or cannot be reached, both a Response and an
// error are returned and the session is left exactly as it was so the user
// can retry. ErrSubmitInFlight and ErrClosed return no Response.
func (i *Interactor) Execute(ctx context.Context) (*Response, error) {
	// 1. Take the diff and mark the submission in flight
	changes, err := i.editor.BeginSubmit()
	if errors.Is(err, session.ErrNoChanges) {
		return i.respond(OutcomeNoChanges, notify.KindNoChanges, 0), nil
	}
	if err != nil {
		return nil, err
	}

	// 2. Send only the modified records
	records := make([]domain.ProductRecord, len(changes))
	for n, c := range changes {
		records[n] = c.Record
	}

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	err = i.store.UpdateProducts(ctx, records)

	// 3. Re-baseline only on success
	i.editor.FinishSubmit(changes, err == nil)

	switch {
	case err == nil:
		i.logger.Info("titles updated", zap.Int("records", len(records)))
		return i.respond(OutcomeUpdated, notify.KindUpdateSucceeded, len(records)), nil

	case errors.Is(err, contracts.ErrRejected):
		i.logger.Warn("record store rejected titles", zap.Int("records", len(records)), zap.Error(err))
		return i.respond(OutcomeRejected, notify.KindUpdateRejected, len(records)), fmt.Errorf("submit titles: %w", err)

	default:
		i.logger.Error("title update failed", zap.Int("records", len(records)), zap.Error(err))
		return i.respond(OutcomeFailed, notify.KindUpdateFailed, len(records)), fmt.Errorf("submit titles: %w", err)
	}
}

func (i *Interactor) respond(outcome Outcome, kind notify.Kind, records int) *Response {
	i.metrics.ObserveSubmit(string(outcome), records, outcome == OutcomeUpdated)
	return &Response{
		Outcome:      outcome,
		Submitted:    records,
		Notification: i.notifier.Push(kind),
	}
}
