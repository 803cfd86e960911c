package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	ColorForeground = lipgloss.Color("#f2f2f2")
	ColorMuted      = lipgloss.Color("#8a8f98")
	ColorCard       = lipgloss.Color("#434343")
	ColorAccent     = lipgloss.Color("#8BC34A")
	ColorWarning    = lipgloss.Color("#FFC107")
	ColorError      = lipgloss.Color("#e53935")
)

// Styles groups the lipgloss styles of the product page.
type Styles struct {
	Title          lipgloss.Style
	Hint           lipgloss.Style
	Card           lipgloss.Style
	SelectedCard   lipgloss.Style
	Label          lipgloss.Style
	Modified       lipgloss.Style
	Variant        lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	Toast          lipgloss.Style
	ToastError     lipgloss.Style
	Empty          lipgloss.Style
}

// DefaultStyles returns the dark card look of the product page.
func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorCard).
		Padding(0, 1).
		Width(cardWidth)

	return Styles{
		Title:          lipgloss.NewStyle().Bold(true).Foreground(ColorForeground).MarginBottom(1),
		Hint:           lipgloss.NewStyle().Foreground(ColorMuted),
		Card:           card,
		SelectedCard:   card.BorderForeground(ColorAccent),
		Label:          lipgloss.NewStyle().Bold(true),
		Modified:       lipgloss.NewStyle().Foreground(ColorWarning),
		Variant:        lipgloss.NewStyle().Foreground(ColorMuted),
		Button:         lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).Padding(0, 1),
		ButtonDisabled: lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1),
		Toast:          lipgloss.NewStyle().Foreground(ColorAccent).MarginTop(1),
		ToastError:     lipgloss.NewStyle().Foreground(ColorError).MarginTop(1),
		Empty:          lipgloss.NewStyle().Foreground(ColorMuted).Italic(true),
	}
}
