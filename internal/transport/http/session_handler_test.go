package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/light-bringer/procat-editor/internal/app/product/contracts"
	"github.com/light-bringer/procat-editor/internal/app/product/domain"
	"github.com/light-bringer/procat-editor/internal/app/product/usecases/submit_titles"
	"github.com/light-bringer/procat-editor/internal/config"
	"github.com/light-bringer/procat-editor/internal/pkg/clock"
	"github.com/light-bringer/procat-editor/internal/pkg/notify"
	"github.com/light-bringer/procat-editor/internal/pkg/storetest"
	"github.com/light-bringer/procat-editor/internal/services"
	httptransport "github.com/light-bringer/procat-editor/internal/transport/http"
)

type api struct {
	t     *testing.T
	store *storetest.Store
	clock *clock.MockClock
	srv   *httptest.Server
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := storetest.NewStore(
		domain.ProductRecord{ID: domain.NumericRecordID("1"), Title: "A", Variants: []domain.Variant{{ID: domain.NumericRecordID("10"), Price: "5.00"}}},
		domain.ProductRecord{ID: domain.NumericRecordID("2"), Title: "B"},
	)
	clk := clock.NewMockClock(time.Now())
	opts := services.NewServiceOptionsWithStore(config.Default(), zaptest.NewLogger(t), store, clk)
	srv := httptest.NewServer(opts.SessionHandler.Routes())
	t.Cleanup(srv.Close)
	return &api{t: t, store: store, clock: clk, srv: srv}
}

func (a *api) do(method, path string, body any, out any) int {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(a.t, err)
	resp, err := a.srv.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *api) session() httptransport.SessionResponse {
	var s httptransport.SessionResponse
	require.Equal(a.t, http.StatusOK, a.do(http.MethodGet, "/session", nil, &s))
	return s
}

func title(s string) map[string]string { return map[string]string{"title": s} }

func TestSessionAPI_EditAndSubmit(t *testing.T) {
	a := newAPI(t)

	s := a.session()
	assert.False(t, s.Loaded)
	assert.Empty(t, s.Products)
	assert.NotNil(t, s.Notifications)

	var reload httptransport.ReloadResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/session/reload", nil, &reload))
	assert.Equal(t, 2, reload.Records)

	s = a.session()
	require.Len(t, s.Products, 2)
	assert.Equal(t, "A", s.Products[0].Product.Title)
	assert.Len(t, s.Products[0].Product.Variants.Edges, 1)
	assert.False(t, s.CanSubmit)

	var edit httptransport.EditTitleResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodPut, "/session/products/0/title", title("A2"), &edit))
	assert.True(t, edit.RecordDirty)
	assert.True(t, edit.SessionDirty)

	s = a.session()
	assert.True(t, s.Dirty)
	assert.True(t, s.CanSubmit)
	assert.True(t, s.Products[0].Dirty)
	assert.False(t, s.Products[1].Dirty)

	var submit httptransport.SubmitResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/session/submit", nil, &submit))
	assert.Equal(t, submit_titles.OutcomeUpdated, submit.Outcome)
	assert.Equal(t, 1, submit.Submitted)
	assert.Equal(t, "A2", a.store.Products()[0].Title)

	s = a.session()
	assert.False(t, s.Dirty)
	require.Len(t, s.Notifications, 1)
	assert.Equal(t, notify.KindUpdateSucceeded, s.Notifications[0].Kind)

	a.clock.Advance(notify.DefaultTTL)
	var active []notify.Notification
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/session/notifications", nil, &active))
	assert.Empty(t, active)
}

func TestSessionAPI_SubmitOutcomes(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/session/reload", nil, nil))

	var submit httptransport.SubmitResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/session/submit", nil, &submit))
	assert.Equal(t, submit_titles.OutcomeNoChanges, submit.Outcome)
	assert.Equal(t, "No changes detected!", submit.Message)
	assert.Empty(t, a.store.Updates())

	require.Equal(t, http.StatusOK, a.do(http.MethodPut, "/session/products/1/title", title("B2"), nil))
	a.store.FailUpdate(contracts.ErrRejected)
	require.Equal(t, http.StatusBadGateway, a.do(http.MethodPost, "/session/submit", nil, &submit))
	assert.Equal(t, submit_titles.OutcomeRejected, submit.Outcome)
	assert.Equal(t, "Failed to update products. Please try again.", submit.Message)
	assert.True(t, a.session().Dirty)

	a.store.FailUpdate(errors.New("connection reset"))
	require.Equal(t, http.StatusBadGateway, a.do(http.MethodPost, "/session/submit", nil, &submit))
	assert.Equal(t, submit_titles.OutcomeFailed, submit.Outcome)
	assert.True(t, a.session().Dirty)
}

func TestSessionAPI_Errors(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/session/reload", nil, nil))

	var e httptransport.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPut, "/session/products/x/title", title("z"), &e))
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPut, "/session/products/0/title", map[string]int{"title": 1}, &e))
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPut, "/session/products/0/title", map[string]string{}, &e))
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPut, "/session/products/9/title", title("z"), &e))
	assert.NotEmpty(t, e.Error)

	a.store.FailList(contracts.ErrUnavailable)
	assert.Equal(t, http.StatusBadGateway, a.do(http.MethodPost, "/session/reload", nil, &e))
	assert.Len(t, a.session().Products, 2)

	assert.Equal(t, http.StatusMethodNotAllowed, a.do(http.MethodDelete, "/session", nil, nil))
}

func TestSessionAPI_EditByID(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/session/reload", nil, nil))

	var edit httptransport.EditTitleResponse
	body := map[string]any{"id": 2, "title": "B2"}
	require.Equal(t, http.StatusOK, a.do(http.MethodPut, "/session/products/by-id/title", body, &edit))
	assert.Equal(t, domain.NumericRecordID("2"), edit.ID)
	assert.Equal(t, 1, edit.Index)
	assert.True(t, edit.RecordDirty)

	s := a.session()
	assert.Equal(t, "A", s.Products[0].Product.Title)
	assert.Equal(t, "B2", s.Products[1].Product.Title)

	var e httptransport.ErrorResponse
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPut, "/session/products/by-id/title", map[string]any{"id": 7, "title": "x"}, &e))
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPut, "/session/products/by-id/title", title("x"), &e))
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPut, "/session/products/by-id/title", map[string]any{"id": nil, "title": "x"}, &e))
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPut, "/session/products/by-id/title", map[string]any{"id": 2}, &e))
}

func TestSessionAPI_ReloadConflictsWithSubmit(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/session/reload", nil, nil))
	require.Equal(t, http.StatusOK, a.do(http.MethodPut, "/session/products/0/title", title("A2"), nil))

	release := a.store.HoldUpdates()
	done := make(chan int, 1)
	go func() {
		resp, err := a.srv.Client().Post(a.srv.URL+"/session/submit", "application/json", nil)
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()
	require.Eventually(t, func() bool { return a.session().Submitting }, time.Second, time.Millisecond)
	assert.False(t, a.session().CanReload)

	var e httptransport.ErrorResponse
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/session/reload", nil, &e))

	release()
	assert.Equal(t, http.StatusOK, <-done)

	s := a.session()
	assert.False(t, s.Dirty)
	assert.True(t, s.CanReload)
	assert.Equal(t, "A2", s.Products[0].Product.Title)
	assert.Equal(t, "A2", a.store.Products()[0].Title)
}
