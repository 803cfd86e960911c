package load_products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-editor/internal/app/product/contracts"
	"github.com/light-bringer/procat-editor/internal/app/product/session"
	"github.com/light-bringer/procat-editor/internal/observability"
	"github.com/light-bringer/procat-editor/internal/pkg/notify"
)

// Response describes a completed load.
type Response struct {
	Records int
}

// Interactor handles the load products use case.
type Interactor struct {
	store    contracts.RecordStore
	editor   *session.Editor
	notifier *notify.Queue
	metrics  *observability.Metrics
	logger   *zap.Logger
	timeout  time.Duration
}

// NewInteractor creates a new load products interactor. A zero timeout
// leaves the caller's context deadline in charge.
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

// Execute fetches the product list and installs it as the new baseline.
// Any failure notifies the user and leaves the previous records in place.
func (i *Interactor) Execute(ctx context.Context) (*Response, error) {
	// 1. Claim the load slot
	if err := i.editor.BeginLoad(); err != nil {
		return nil, err
	}

	// 2. Fetch without holding the session
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	records, err := i.store.ListProducts(ctx)
	if err != nil {
		i.editor.AbortLoad()
		return nil, i.fail(fmt.Errorf("load products: %w", err))
	}

	// 3. Install records; a torn down session drops them
	if err := i.editor.FinishLoad(records); err != nil {
		if errors.Is(err, session.ErrClosed) {
			i.logger.Debug("discarding products for closed session", zap.Int("records", len(records)))
			return nil, err
		}
		return nil, i.fail(fmt.Errorf("load products: %w: %w", contracts.ErrMalformedResponse, err))
	}

	i.metrics.ObserveFetch("ok")
	i.logger.Info("products loaded", zap.Int("records", len(records)))
	return &Response{Records: len(records)}, nil
}

func (i *Interactor) fail(err error) error {
	i.metrics.ObserveFetch("failed")
	i.notifier.Push(notify.KindFetchFailed)
	i.logger.Warn("product fetch failed", zap.Error(err))
	return err
}
