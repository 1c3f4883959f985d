package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/liora-cosmetic/liora/cli/tui/styles"
)

const escKey = "esc"

// ShortcutCategory is one titled group of key bindings
type ShortcutCategory struct {
	Name      string
	Shortcuts [][2]string
}

// KeyboardShortcuts is the reference card opened with "?"
type KeyboardShortcuts struct {
	Width      int
	Height     int
	Visible    bool
	Categories []ShortcutCategory
}

// NewKeyboardShortcuts builds the card for a list exposing actions
func NewKeyboardShortcuts(keys ListKeyMap, actions []string, bulk bool) KeyboardShortcuts {
	categories := []ShortcutCategory{
		{Name: "Chung", Shortcuts: [][2]string{
			{"q", "thoát"},
			{"?", "bảng phím tắt"},
			{"r", "tải lại"},
		}},
		{Name: "Tìm kiếm & lọc", Shortcuts: [][2]string{
			{"/", "tìm kiếm"},
			{"f", "lọc (tên=giá trị)"},
			{"1-9", "sắp xếp theo cột"},
			{escKey, "xóa bộ lọc"},
		}},
		{Name: "Trang", Shortcuts: [][2]string{
			{"n/→", "trang sau"},
			{"p/←", "trang trước"},
			{"home/end", "trang đầu/cuối"},
		}},
	}
	selection := ShortcutCategory{Name: "Chọn", Shortcuts: [][2]string{
		{"space", "chọn dòng"},
		{"a", "chọn cả trang"},
		{"y", "sao chép mã đã chọn"},
	}}
	if bulk {
		selection.Shortcuts = append(selection.Shortcuts, [2]string{"s", "đổi trạng thái hàng loạt"})
	}
	categories = append(categories, selection)
	if len(actions) > 0 {
		row := ShortcutCategory{Name: "Thao tác"}
		for _, name := range actions {
			if b, ok := keys.Actions[name]; ok {
				row.Shortcuts = append(row.Shortcuts, [2]string{b.Help().Key, b.Help().Desc})
			}
		}
		categories = append(categories, row)
	}
	return KeyboardShortcuts{Categories: categories}
}

func (k *KeyboardShortcuts) SetSize(width, height int) *KeyboardShortcuts {
	k.Width = width
	k.Height = height
	return k
}

func (k *KeyboardShortcuts) Toggle() {
	k.Visible = !k.Visible
}

// Update hides the card on esc, q or ?; it reports whether the key was used
func (k *KeyboardShortcuts) Update(msg tea.Msg) bool {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !k.Visible {
		return false
	}
	switch keyMsg.String() {
	case escKey, "q", "?":
		k.Visible = false
	}
	return true
}

func (k *KeyboardShortcuts) View() string {
	if !k.Visible {
		return ""
	}
	content := styles.RenderTitle("Phím tắt") + "\n\n"
	content += k.renderColumns()
	content += "\n" + styles.HelpStyle.Render("Nhấn ESC hoặc q để đóng")
	dialog := styles.DialogStyle.Render(content)
	if k.Width <= 0 || k.Height <= 0 {
		return dialog
	}
	return lipgloss.Place(k.Width, k.Height, lipgloss.Center, lipgloss.Center, dialog)
}

func (k *KeyboardShortcuts) renderColumns() string {
	cols := 1
	if k.Width > 100 {
		cols = 3
	} else if k.Width > 60 {
		cols = 2
	}
	perCol := (len(k.Categories) + cols - 1) / cols
	columns := make([]string, 0, cols)
	for col := range cols {
		start := col * perCol
		end := min(start+perCol, len(k.Categories))
		var b strings.Builder
		for i := start; i < end; i++ {
			if i > start {
				b.WriteString("\n")
			}
			b.WriteString(renderCategory(k.Categories[i]))
		}
		columns = append(columns, lipgloss.NewStyle().PaddingRight(2).Render(b.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderCategory(c ShortcutCategory) string {
	var b strings.Builder
	b.WriteString(styles.HelpDescStyle.Bold(true).Render(c.Name) + "\n")
	for _, s := range c.Shortcuts {
		b.WriteString("  " + styles.HelpKeyStyle.Render(s[0]) + " " + styles.HelpDescStyle.Render(s[1]) + "\n")
	}
	return b.String()
}
