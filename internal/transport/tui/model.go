// Package tui is the terminal presentation shell: a product list with inline
// title editing, a list/grid toggle, an update control and toasts.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/light-bringer/procat-editor/internal/app/product/queries/get_session"
	"github.com/light-bringer/procat-editor/internal/app/product/session"
	"github.com/light-bringer/procat-editor/internal/app/product/usecases/edit_title"
	"github.com/light-bringer/procat-editor/internal/app/product/usecases/load_products"
	"github.com/light-bringer/procat-editor/internal/app/product/usecases/submit_titles"
	"github.com/light-bringer/procat-editor/internal/pkg/notify"
)

const (
	cardWidth    = 40
	tickInterval = 250 * time.Millisecond
	titleLimit   = 255
)

// ViewMode selects how product cards are laid out.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewGrid
)

func (v ViewMode) other() ViewMode {
	if v == ViewList {
		return ViewGrid
	}
	return ViewList
}

func (v ViewMode) String() string {
	if v == ViewGrid {
		return "Grid"
	}
	return "List"
}

type (
	loadedMsg    struct{ err error }
	submittedMsg struct {
		resp *submit_titles.Response
		err  error
	}
	tickMsg time.Time
)

// Deps are the use cases the shell drives.
type Deps struct {
	LoadProducts *load_products.Interactor
	SubmitTitles *submit_titles.Interactor
	EditTitle    *edit_title.Interactor
	GetSession   *get_session.Query
	Notifier     *notify.Queue
}

// Model is the bubbletea model of the product page.
type Model struct {
	ctx    context.Context
	deps   Deps
	styles Styles

	state    session.State
	toast    notify.Notification
	hasToast bool

	cursor  int
	editing bool
	input   textinput.Model
	mode    ViewMode
	width   int
}

// NewModel creates the page model. ctx bounds every record store call.
func NewModel(ctx context.Context, deps Deps) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = titleLimit
	ti.Width = cardWidth - 4

	m := Model{
		ctx:    ctx,
		deps:   deps,
		styles: DefaultStyles(),
		input:  ti,
		width:  80,
	}
	m.refresh()
	return m
}

// Init starts the initial load and the toast ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), tick())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tick()

	case loadedMsg, submittedMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.state.Rows)-1 {
			m.cursor++
		}

	case "enter", "e":
		if len(m.state.Rows) == 0 {
			return m, nil
		}
		m.editing = true
		m.input.SetValue(m.state.Rows[m.cursor].Record.Title)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case "v":
		m.mode = m.mode.other()

	case "s":
		// The update control is disabled unless there is something to send.
		if !m.state.CanSubmit() {
			return m, nil
		}
		m.state.Submitting = true
		return m, m.submitCmd()

	case "x":
		if m.hasToast {
			m.deps.Notifier.Dismiss(m.toast.ID)
			m.refresh()
		}

	case "r":
		if !m.state.CanReload() {
			return m, nil
		}
		m.state.Loading = true
		return m, m.loadCmd()
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.cursor < len(m.state.Rows) && m.input.Value() != m.state.Rows[m.cursor].Record.Title {
		// Every keystroke is an edit, as with an onChange handler.
		_, _ = m.deps.EditTitle.Execute(&edit_title.Request{Index: m.cursor, Title: m.input.Value()})
		m.refresh()
	}
	return m, cmd
}

func (m *Model) refresh() {
	m.state = m.deps.GetSession.Execute().State
	m.toast, m.hasToast = m.deps.Notifier.Latest()
	if m.cursor >= len(m.state.Rows) {
		m.cursor = max(0, len(m.state.Rows)-1)
	}
	if m.editing && len(m.state.Rows) == 0 {
		m.editing = false
		m.input.Blur()
	}
}

func (m Model) loadCmd() tea.Cmd {
	ctx, load := m.ctx, m.deps.LoadProducts
	return func() tea.Msg {
		_, err := load.Execute(ctx)
		return loadedMsg{err: err}
	}
}

func (m Model) submitCmd() tea.Cmd {
	ctx, submit := m.ctx, m.deps.SubmitTitles
	return func() tea.Msg {
		resp, err := submit.Execute(ctx)
		return submittedMsg{resp: resp, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// View renders the page.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Product List"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Hint.Render(fmt.Sprintf("[v] Toggle %s View", m.mode.other())))
	sb.WriteString("\n\n")

	switch {
	case len(m.state.Rows) == 0 && m.state.Loading:
		sb.WriteString(m.styles.Empty.Render("Loading products..."))
	case len(m.state.Rows) == 0:
		sb.WriteString(m.styles.Empty.Render("No products available."))
	default:
		sb.WriteString(m.renderCards())
	}
	sb.WriteString("\n\n")

	sb.WriteString(m.renderButton())
	sb.WriteString("\n")

	if m.hasToast {
		style := m.styles.Toast
		if m.toast.Error {
			style = m.styles.ToastError
		}
		sb.WriteString(style.Render(m.toast.Message))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Hint.Render(m.help()))
	return sb.String()
}

func (m Model) renderCards() string {
	cards := make([]string, len(m.state.Rows))
	for i, row := range m.state.Rows {
		cards[i] = m.renderCard(i, row)
	}

	if m.mode == ViewList {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}

	perRow := max(1, m.width/(cardWidth+2))
	lines := make([]string, 0, len(cards)/perRow+1)
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderCard(i int, row session.Row) string {
	var sb strings.Builder

	sb.WriteString(m.styles.Label.Render("Title"))
	if row.Dirty {
		sb.WriteString(m.styles.Modified.Render(" (modified)"))
	}
	sb.WriteString("\n")
	if m.editing && i == m.cursor {
		sb.WriteString(m.input.View())
	} else {
		sb.WriteString(row.Record.Title)
	}
	sb.WriteString("\n")

	sb.WriteString(m.styles.Label.Render("Variants:"))
	for _, v := range row.Record.Variants {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Variant.Render(fmt.Sprintf("SKU: %s | Price: $%s", v.DisplaySKU(), v.DisplayPrice())))
	}

	style := m.styles.Card
	if i == m.cursor {
		style = m.styles.SelectedCard
	}
	return style.Render(sb.String())
}

func (m Model) renderButton() string {
	label := "[ Update Titles ]"
	if m.state.Submitting {
		label = "[ Updating... ]"
	}
	if m.state.CanSubmit() {
		return m.styles.Button.Render(label)
	}
	return m.styles.ButtonDisabled.Render(label)
}

func (m Model) help() string {
	if m.editing {
		return "type to edit • enter/esc done • ctrl+c quit"
	}
	return "↑/↓ move • enter edit • s update titles • r reload • v view • x dismiss • q quit"
}

// Run starts the interactive program and blocks until it exits.
func Run(ctx context.Context, deps Deps, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(NewModel(ctx, deps), opts...).Run()
	return err
}
