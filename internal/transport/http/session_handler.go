package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-editor/internal/app/product/contracts"
	"github.com/light-bringer/procat-editor/internal/app/product/domain"
	"github.com/light-bringer/procat-editor/internal/app/product/queries/get_session"
	"github.com/light-bringer/procat-editor/internal/app/product/repo"
	"github.com/light-bringer/procat-editor/internal/app/product/session"
	"github.com/light-bringer/procat-editor/internal/app/product/usecases/edit_title"
	"github.com/light-bringer/procat-editor/internal/app/product/usecases/load_products"
	"github.com/light-bringer/procat-editor/internal/app/product/usecases/submit_titles"
	"github.com/light-bringer/procat-editor/internal/pkg/notify"
)

// SessionHandler serves the editing session as a local JSON API for an
// external web shell.
type SessionHandler struct {
	loadProducts *load_products.Interactor
	submitTitles *submit_titles.Interactor
	editTitle    *edit_title.Interactor
	getSession   *get_session.Query
	logger       *zap.Logger
}

// NewSessionHandler creates a new HTTP session handler.
func NewSessionHandler(
	loadProducts *load_products.Interactor,
	submitTitles *submit_titles.Interactor,
	editTitle *edit_title.Interactor,
	getSession *get_session.Query,
	logger *zap.Logger,
) *SessionHandler {
	return &SessionHandler{
		loadProducts: loadProducts,
		submitTitles: submitTitles,
		editTitle:    editTitle,
		getSession:   getSession,
		logger:       logger,
	}
}

// Row is one product in the session response.
type Row struct {
	Index   int          `json:"index"`
	Dirty   bool         `json:"dirty"`
	Product repo.Product `json:"product"`
}

// SessionResponse represents the HTTP response for the session state.
type SessionResponse struct {
	Products      []Row                 `json:"products"`
	Dirty         bool                  `json:"dirty"`
	CanSubmit     bool                  `json:"can_submit"`
	CanReload     bool                  `json:"can_reload"`
	Loaded        bool                  `json:"loaded"`
	Loading       bool                  `json:"loading"`
	Submitting    bool                  `json:"submitting"`
	Notifications []notify.Notification `json:"notifications"`
}

// EditTitleRequest is the body of PUT /session/products/{index}/title.
type EditTitleRequest struct {
	Title *string `json:"title"`
}

// EditTitleByIDRequest is the body of PUT /session/products/by-id/title. The
// id travels in the body because store ids such as gid://shopify/Product/1
// contain slashes.
type EditTitleByIDRequest struct {
	ID    *domain.RecordID `json:"id"`
	Title *string          `json:"title"`
}

// EditTitleResponse reports the dirty state after an edit.
type EditTitleResponse struct {
	ID           domain.RecordID `json:"id"`
	Index        int             `json:"index"`
	RecordDirty  bool            `json:"record_dirty"`
	SessionDirty bool            `json:"session_dirty"`
}

// SubmitResponse reports a submission outcome.
type SubmitResponse struct {
	Outcome   submit_titles.Outcome `json:"outcome"`
	Submitted int                   `json:"submitted"`
	Message   string                `json:"message"`
}

// ReloadResponse reports a completed reload.
type ReloadResponse struct {
	Records int `json:"records"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Routes returns the API mux.
func (h *SessionHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /session", h.handleGet)
	mux.HandleFunc("POST /session/reload", h.handleReload)
	mux.HandleFunc("PUT /session/products/{index}/title", h.handleEditTitle)
	mux.HandleFunc("PUT /session/products/by-id/title", h.handleEditTitleByID)
	mux.HandleFunc("POST /session/submit", h.handleSubmit)
	mux.HandleFunc("GET /session/notifications", h.handleNotifications)
	return mux
}

func (h *SessionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	resp := h.getSession.Execute()
	state := resp.State

	rows := make([]Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, Row{Index: row.Index, Dirty: row.Dirty, Product: repo.FromDomain(row.Record)})
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		Products:      rows,
		Dirty:         state.Dirty,
		CanSubmit:     state.CanSubmit(),
		CanReload:     state.CanReload(),
		Loaded:        state.Loaded,
		Loading:       state.Loading,
		Submitting:    state.Submitting,
		Notifications: nonNil(resp.Notifications),
	})
}

func (h *SessionHandler) handleReload(w http.ResponseWriter, r *http.Request) {
	resp, err := h.loadProducts.Execute(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReloadResponse{Records: resp.Records})
}

func (h *SessionHandler) handleEditTitle(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "index must be an integer"})
		return
	}

	var req EditTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "body must be {\"title\": string}"})
		return
	}

	h.edit(w, &edit_title.Request{Index: index, Title: *req.Title})
}

func (h *SessionHandler) handleEditTitleByID(w http.ResponseWriter, r *http.Request) {
	var req EditTitleByIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == nil || req.ID.IsZero() || req.Title == nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "body must be {\"id\": string|number, \"title\": string}"})
		return
	}

	h.edit(w, &edit_title.Request{ID: *req.ID, Title: *req.Title})
}

func (h *SessionHandler) edit(w http.ResponseWriter, req *edit_title.Request) {
	resp, err := h.editTitle.Execute(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EditTitleResponse{
		ID:           resp.ID,
		Index:        resp.Index,
		RecordDirty:  resp.RecordDirty,
		SessionDirty: resp.SessionDirty,
	})
}

func (h *SessionHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	resp, err := h.submitTitles.Execute(r.Context())
	if resp == nil {
		h.writeError(w, err)
		return
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, SubmitResponse{
		Outcome:   resp.Outcome,
		Submitted: resp.Submitted,
		Message:   resp.Notification.Message,
	})
}

func (h *SessionHandler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(h.getSession.Execute().Notifications))
}

// writeError maps domain and session errors to HTTP status codes.
func (h *SessionHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrIndexOutOfRange), errors.Is(err, domain.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrLoadInFlight), errors.Is(err, session.ErrSubmitInFlight):
		status = http.StatusConflict
	case errors.Is(err, session.ErrClosed):
		status = http.StatusServiceUnavailable
	case errors.Is(err, contracts.ErrRejected),
		errors.Is(err, contracts.ErrUnavailable),
		errors.Is(err, contracts.ErrMalformedResponse):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("session request failed", zap.Error(err))
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil(n []notify.Notification) []notify.Notification {
	if n == nil {
		return []notify.Notification{}
	}
	return n
}
