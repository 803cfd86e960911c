package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-editor/internal/app/product/contracts"
	"github.com/light-bringer/procat-editor/internal/app/product/queries/get_session"
	"github.com/light-bringer/procat-editor/internal/app/product/repo"
	"github.com/light-bringer/procat-editor/internal/app/product/session"
	"github.com/light-bringer/procat-editor/internal/app/product/usecases/edit_title"
	"github.com/light-bringer/procat-editor/internal/app/product/usecases/load_products"
	"github.com/light-bringer/procat-editor/internal/app/product/usecases/submit_titles"
	"github.com/light-bringer/procat-editor/internal/config"
	"github.com/light-bringer/procat-editor/internal/observability"
	"github.com/light-bringer/procat-editor/internal/pkg/clock"
	"github.com/light-bringer/procat-editor/internal/pkg/notify"
	httptransport "github.com/light-bringer/procat-editor/internal/transport/http"
)

// Version is reported in the User-Agent header. Set with -ldflags.
var Version = "dev"

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Store    contracts.RecordStore
	Editor   *session.Editor
	Notifier *notify.Queue
	Clock    clock.Clock

	LoadProducts *load_products.Interactor
	SubmitTitles *submit_titles.Interactor
	EditTitle    *edit_title.Interactor
	GetSession   *get_session.Query

	SessionHandler *httptransport.SessionHandler
}

// NewServiceOptions wires the application against the configured HTTP
// record store.
func NewServiceOptions(cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	metrics := observability.NewMetrics()

	// 1. Record store client
	store, err := repo.NewHTTPStore(cfg.StoreURL,
		repo.WithUserAgent("procat-editor/"+Version),
		repo.WithLogger(logger.Named("store")),
		repo.WithMetrics(metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create record store client: %w", err)
	}

	return newServiceOptions(cfg, logger, metrics, store, clock.NewRealClock()), nil
}

// NewServiceOptionsWithStore wires the application against any record store.
// A nil clk uses the system clock.
func NewServiceOptionsWithStore(cfg *config.Config, logger *zap.Logger, store contracts.RecordStore, clk clock.Clock) *ServiceOptions {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return newServiceOptions(cfg, logger, observability.NewMetrics(), store, clk)
}

func newServiceOptions(
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Metrics,
	store contracts.RecordStore,
	clk clock.Clock,
) *ServiceOptions {
	// 2. Session state
	editor := session.NewEditor()
	notifier := notify.NewQueue(clk, cfg.ToastDuration)

	// 3. Command use cases
	loadProducts := load_products.NewInteractor(store, editor, notifier, metrics, logger.Named("load"), cfg.RequestTimeout)
	submitTitles := submit_titles.NewInteractor(store, editor, notifier, metrics, logger.Named("submit"), cfg.RequestTimeout)
	editTitle := edit_title.NewInteractor(editor, logger.Named("edit"))

	// 4. Queries
	getSession := get_session.NewQuery(editor, notifier)

	// 5. HTTP shell
	sessionHandler := httptransport.NewSessionHandler(loadProducts, submitTitles, editTitle, getSession, logger.Named("http"))

	return &ServiceOptions{
		Config:         cfg,
		Logger:         logger,
		Metrics:        metrics,
		Store:          store,
		Editor:         editor,
		Notifier:       notifier,
		Clock:          clk,
		LoadProducts:   loadProducts,
		SubmitTitles:   submitTitles,
		EditTitle:      editTitle,
		GetSession:     getSession,
		SessionHandler: sessionHandler,
	}
}

// Close tears the editing session down; late responses are discarded.
func (s *ServiceOptions) Close() {
	if s.Editor != nil {
		s.Editor.Close()
	}
}
