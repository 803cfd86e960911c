package storetest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/light-bringer/procat-editor/internal/app/product/repo"
)

// Request is a request received by Server.
type Request struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

// Server exposes a Store over the record store REST API.
type Server struct {
	*httptest.Server
	store *Store

	mu           sync.Mutex
	listStatus   int
	listBody     string
	updateStatus int
	requests     []Request
}

// NewServer starts a server backed by store. It is closed on test cleanup.
func NewServer(t testing.TB, store *Store) *Server {
	t.Helper()
	s := &Server{store: store}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", s.handleList)
	mux.HandleFunc("PUT /api/products/update", s.handleUpdate)

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// RespondList overrides the list response with a fixed status and raw body.
// A zero status restores normal behaviour.
func (s *Server) RespondList(status int, body string) {
	s.mu.Lock()
	s.listStatus, s.listBody = status, body
	s.mu.Unlock()
}

// RespondUpdate makes updates answer with status without touching the store.
// A zero status restores normal behaviour.
func (s *Server) RespondUpdate(status int) {
	s.mu.Lock()
	s.updateStatus = status
	s.mu.Unlock()
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		s.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status, body := s.listStatus, s.listBody
	s.mu.Unlock()

	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
		return
	}

	records, err := s.store.ListProducts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(repo.FromDomainList(records))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := s.updateStatus
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	var req repo.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.UpdateProducts(r.Context(), repo.ToDomainList(req.Products)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"success":true}`)
}
