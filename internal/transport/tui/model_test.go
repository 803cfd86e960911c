package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/light-bringer/procat-editor/internal/app/product/contracts"
	"github.com/light-bringer/procat-editor/internal/app/product/domain"
	"github.com/light-bringer/procat-editor/internal/config"
	"github.com/light-bringer/procat-editor/internal/pkg/clock"
	"github.com/light-bringer/procat-editor/internal/pkg/storetest"
	"github.com/light-bringer/procat-editor/internal/services"
)

type harness struct {
	t     *testing.T
	store *storetest.Store
	clock *clock.MockClock
	model Model
}

func newHarness(t *testing.T, records ...domain.ProductRecord) *harness {
	t.Helper()
	store := storetest.NewStore(records...)
	clk := clock.NewMockClock(time.Now())
	opts := services.NewServiceOptionsWithStore(config.Default(), zaptest.NewLogger(t), store, clk)
	t.Cleanup(opts.Close)

	m := NewModel(context.Background(), Deps{
		LoadProducts: opts.LoadProducts,
		SubmitTitles: opts.SubmitTitles,
		EditTitle:    opts.EditTitle,
		GetSession:   opts.GetSession,
		Notifier:     opts.Notifier,
	})
	h := &harness{t: t, store: store, clock: clk, model: m}
	h.apply(m.loadCmd())
	return h
}

// apply runs a store command synchronously and feeds its result back.
func (h *harness) apply(cmd tea.Cmd) {
	h.t.Helper()
	require.NotNil(h.t, cmd)
	h.update(cmd())
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) key(k string) tea.Cmd {
	switch k {
	case "enter":
		return h.update(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.update(tea.KeyMsg{Type: tea.KeyEsc})
	case "backspace":
		return h.update(tea.KeyMsg{Type: tea.KeyBackspace})
	case "down":
		return h.update(tea.KeyMsg{Type: tea.KeyDown})
	case "up":
		return h.update(tea.KeyMsg{Type: tea.KeyUp})
	case "ctrl+c":
		return h.update(tea.KeyMsg{Type: tea.KeyCtrlC})
	}
	return h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.key(string(r))
	}
}

func sampleRecords() []domain.ProductRecord {
	sku := "SKU-1"
	return []domain.ProductRecord{
		{ID: domain.NumericRecordID("1"), Title: "A", Variants: []domain.Variant{{ID: domain.NumericRecordID("10"), SKU: sku, Price: "5"}}},
		{ID: domain.NumericRecordID("2"), Title: "B", Variants: []domain.Variant{{ID: domain.NumericRecordID("20"), Price: "12.5"}}},
	}
}

func TestModel_InitialLoadRendersCards(t *testing.T) {
	h := newHarness(t, sampleRecords()...)

	view := h.model.View()
	assert.Contains(t, view, "Product List")
	assert.Contains(t, view, "SKU: SKU-1 | Price: $5.00")
	assert.Contains(t, view, "SKU: N/A | Price: $12.50")
	assert.Contains(t, view, "[v] Toggle Grid View")
	assert.False(t, h.model.state.CanSubmit())
}

func TestModel_EmptyCatalog(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.model.View(), "No products available.")

	// Nothing to edit.
	assert.Nil(t, h.key("enter"))
	assert.False(t, h.model.editing)
}

func TestModel_EditKeystrokesTrackDirtyState(t *testing.T) {
	h := newHarness(t, sampleRecords()...)

	h.key("enter")
	require.True(t, h.model.editing)

	h.typeText("2")
	assert.True(t, h.model.state.Dirty)
	assert.True(t, h.model.state.Rows[0].Dirty)
	assert.Equal(t, "A2", h.model.state.Rows[0].Record.Title)
	assert.Contains(t, h.model.View(), "(modified)")

	// Typing "q" while editing is text, not quit.
	h.typeText("q")
	assert.Equal(t, "A2q", h.model.state.Rows[0].Record.Title)

	h.key("backspace")
	h.key("backspace")
	assert.False(t, h.model.state.Dirty, "reverting to the baseline title clears the mark")

	h.key("esc")
	assert.False(t, h.model.editing)
}

func TestModel_SubmitSendsOnlyChangedRecords(t *testing.T) {
	h := newHarness(t, sampleRecords()...)

	h.key("down")
	h.key("enter")
	h.typeText("X")
	h.key("enter")

	cmd := h.key("s")
	require.NotNil(t, cmd)
	assert.True(t, h.model.state.Submitting)
	h.apply(cmd)

	updates := h.store.Updates()
	require.Len(t, updates, 1)
	require.Len(t, updates[0], 1)
	assert.Equal(t, "BX", updates[0][0].Title)

	assert.False(t, h.model.state.Dirty)
	assert.False(t, h.model.state.Submitting)
	assert.Contains(t, h.model.View(), "Products updated successfully!")
}

func TestModel_SubmitDisabledWithoutChanges(t *testing.T) {
	h := newHarness(t, sampleRecords()...)

	assert.Nil(t, h.key("s"))
	assert.Empty(t, h.store.Updates())
}

func TestModel_FailedSubmitKeepsEdits(t *testing.T) {
	h := newHarness(t, sampleRecords()...)
	h.store.FailUpdate(contracts.ErrUnavailable)

	h.key("enter")
	h.typeText("!")
	h.key("enter")
	h.apply(h.key("s"))

	assert.True(t, h.model.state.Dirty)
	assert.Equal(t, "A!", h.model.state.Rows[0].Record.Title)
	assert.Contains(t, h.model.View(), "Error: Unable to update products.")
}

func TestModel_FetchFailureShowsToastUntilExpiry(t *testing.T) {
	h := newHarness(t, sampleRecords()...)
	h.store.FailList(contracts.ErrUnavailable)

	h.apply(h.key("r"))
	assert.Contains(t, h.model.View(), "Error fetching products!")
	assert.Len(t, h.model.state.Rows, 2, "a failed reload keeps the loaded records")

	h.clock.Advance(config.Default().ToastDuration)
	require.NotNil(t, h.update(tickMsg(h.clock.Now())))
	assert.NotContains(t, h.model.View(), "Error fetching products!")
}

func TestModel_DismissToast(t *testing.T) {
	h := newHarness(t, sampleRecords()...)
	h.store.FailList(contracts.ErrUnavailable)
	h.apply(h.key("r"))
	require.True(t, h.model.hasToast)

	h.key("x")
	assert.False(t, h.model.hasToast)
	assert.NotContains(t, h.model.View(), "Error fetching products!")
}

func TestModel_ToggleViewMode(t *testing.T) {
	h := newHarness(t, sampleRecords()...)
	h.update(tea.WindowSizeMsg{Width: 120, Height: 40})

	h.key("v")
	assert.Equal(t, ViewGrid, h.model.mode)
	assert.Contains(t, h.model.View(), "[v] Toggle List View")

	h.key("v")
	assert.Equal(t, ViewList, h.model.mode)
}

func TestModel_CursorStaysInRange(t *testing.T) {
	h := newHarness(t, sampleRecords()...)

	h.key("up")
	assert.Equal(t, 0, h.model.cursor)
	h.key("down")
	h.key("down")
	assert.Equal(t, 1, h.model.cursor)

	h.store.SetProducts(sampleRecords()[0])
	h.apply(h.key("r"))
	assert.Equal(t, 0, h.model.cursor)
}

func TestModel_Quit(t *testing.T) {
	h := newHarness(t, sampleRecords()...)

	cmd := h.key("q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	h.key("enter")
	cmd = h.key("ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ReloadAndSubmitExcludeEachOther(t *testing.T) {
	h := newHarness(t, sampleRecords()...)
	h.key("enter")
	h.typeText("2")
	h.key("enter")

	submit := h.key("s")
	require.NotNil(t, submit)
	assert.Nil(t, h.key("r"), "no reload while the update is in flight")
	h.apply(submit)
	assert.False(t, h.model.state.Dirty)

	h.key("enter")
	h.typeText("3")
	h.key("enter")

	reload := h.key("r")
	require.NotNil(t, reload)
	assert.Nil(t, h.key("s"), "no update while a reload is in flight")
	h.apply(reload)
	assert.Equal(t, 1, len(h.store.Updates()))
}
