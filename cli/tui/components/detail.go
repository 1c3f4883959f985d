package components

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/liora-cosmetic/liora/cli/tui/styles"
)

// DetailPane shows the output of view and edit actions. Show may be called
// from any goroutine.
type DetailPane struct {
	mu       sync.Mutex
	title    string
	body     string
	visible  bool
	onChange func()
}

func NewDetailPane() *DetailPane {
	return &DetailPane{}
}

// Show replaces the pane content; strings are shown verbatim, anything
// else as indented JSON.
func (d *DetailPane) Show(title string, value any) {
	body, ok := value.(string)
	if !ok {
		raw, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			body = fmt.Sprintf("%+v", value)
		} else {
			body = string(raw)
		}
	}
	d.mu.Lock()
	d.title = title
	d.body = body
	d.visible = true
	hook := d.onChange
	d.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (d *DetailPane) Hide() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.visible = false
}

func (d *DetailPane) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}

func (d *DetailPane) setOnChange(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChange = fn
}

func (d *DetailPane) View(width int) string {
	d.mu.Lock()
	title, body, visible := d.title, d.body, d.visible
	d.mu.Unlock()
	if !visible {
		return ""
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.RenderTitle(title),
		body,
		styles.HelpStyle.Render("esc để đóng"),
	)
	style := styles.DialogStyle
	if width > 4 {
		style = style.Width(width - 4)
	}
	return style.Render(content)
}
