// Package styles holds the shared lipgloss palette of the terminal views.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/liora-cosmetic/liora/pkg/notify"
)

// Palette
var (
	Primary   = lipgloss.AdaptiveColor{Light: "#B0306A", Dark: "#F38BB5"}
	Secondary = lipgloss.AdaptiveColor{Light: "#5B4B8A", Dark: "#B8A9E8"}
	Highlight = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#FFFFFF"}
	Surface   = lipgloss.AdaptiveColor{Light: "#F6E3EC", Dark: "#3A2430"}
	Border    = lipgloss.AdaptiveColor{Light: "#D8C3CE", Dark: "#5C4452"}
	Muted     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#7D7D7D"}
	Success   = lipgloss.AdaptiveColor{Light: "#1E8E3E", Dark: "#7EE2A8"}
	Warning   = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFC46B"}
	Danger    = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF7A7A"}
	Info      = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#8CC8FF"}
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	InfoStyle     = lipgloss.NewStyle().Foreground(Info)
	WarningStyle  = lipgloss.NewStyle().Foreground(Warning)
	ErrorStyle    = lipgloss.NewStyle().Foreground(Danger).Bold(true)
	SuccessStyle  = lipgloss.NewStyle().Foreground(Success)
	HelpStyle     = lipgloss.NewStyle().Foreground(Muted)
	HelpKeyStyle  = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	HelpDescStyle = lipgloss.NewStyle().Foreground(Muted)

	PaginationStyle = lipgloss.NewStyle().Foreground(Muted).Padding(0, 1)
	ActivePageStyle = lipgloss.NewStyle().
			Foreground(Highlight).
			Background(Primary).
			Bold(true).
			Padding(0, 1)
	PageStyle         = lipgloss.NewStyle().Padding(0, 1)
	DisabledPageStyle = lipgloss.NewStyle().Foreground(Muted).Faint(true).Padding(0, 1)

	SelectedMarkStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	SpinnerStyle      = lipgloss.NewStyle().Foreground(Primary)
	PromptStyle       = lipgloss.NewStyle().Foreground(Secondary).Bold(true)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	toastBase = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// RenderTitle renders a view title
func RenderTitle(title string) string {
	return TitleStyle.Render(title)
}

// ToastStyle returns the style of a toast at level
func ToastStyle(level notify.Level) lipgloss.Style {
	switch level {
	case notify.LevelError:
		return toastBase.BorderForeground(Danger).Foreground(Danger)
	case notify.LevelWarning:
		return toastBase.BorderForeground(Warning).Foreground(Warning)
	case notify.LevelSuccess:
		return toastBase.BorderForeground(Success).Foreground(Success)
	default:
		return toastBase.BorderForeground(Info).Foreground(Info)
	}
}
