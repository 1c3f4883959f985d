package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/liora-cosmetic/liora/cli/tui/styles"
	"github.com/liora-cosmetic/liora/pkg/listctl"
	"github.com/liora-cosmetic/liora/pkg/notify"
)

const (
	prevLabel = "‹ Trước"
	nextLabel = "Sau ›"
	ellipsis  = "…"
)

// RenderPagination draws the page bar; it is empty when only one page exists
func RenderPagination(p listctl.Pagination) string {
	if !p.Visible {
		return ""
	}
	parts := []string{control(prevLabel, p.Prev)}
	if p.ShowFirst {
		parts = append(parts, pageButton(1, p.Current))
	}
	if p.LeadingEllipsis {
		parts = append(parts, styles.PageStyle.Render(ellipsis))
	}
	for _, n := range p.Pages {
		if p.ShowFirst && n == 1 {
			continue
		}
		parts = append(parts, pageButton(n, p.Current))
	}
	if p.TrailingEllipsis {
		parts = append(parts, styles.PageStyle.Render(ellipsis))
	}
	if p.ShowLast {
		parts = append(parts, pageButton(p.Last, p.Current))
	}
	parts = append(parts, control(nextLabel, p.Next))
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func control(label string, c listctl.Control) string {
	if c.Disabled {
		return styles.DisabledPageStyle.Render(label)
	}
	return styles.PageStyle.Render(label)
}

func pageButton(n, current int) string {
	if n == current {
		return styles.ActivePageStyle.Render(strconv.Itoa(n))
	}
	return styles.PageStyle.Render(strconv.Itoa(n))
}

// RenderToasts stacks the visible toasts, oldest first
func RenderToasts(toasts []notify.Notification, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(toasts))
	for _, n := range toasts {
		style := styles.ToastStyle(n.Level)
		if width > 8 {
			style = style.MaxWidth(width)
		}
		lines = append(lines, style.Render(toastIcon(n.Level)+" "+n.Message))
	}
	return strings.Join(lines, "\n")
}

func toastIcon(level notify.Level) string {
	switch level {
	case notify.LevelError:
		return "✗"
	case notify.LevelWarning:
		return "!"
	case notify.LevelSuccess:
		return "✓"
	default:
		return "i"
	}
}
