package components

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/liora-cosmetic/liora/cli/tables"
	"github.com/liora-cosmetic/liora/cli/tui/models"
	"github.com/liora-cosmetic/liora/cli/tui/styles"
	"github.com/liora-cosmetic/liora/pkg/listctl"
	"github.com/liora-cosmetic/liora/pkg/notify"
)

const (
	toastInterval = 250 * time.Millisecond
	markerWidth   = 3
	// rows reserved for title, pagination, caption, prompt and help
	chromeHeight = 9
)

type promptMode int

const (
	promptNone promptMode = iota
	promptSearch
	promptFilter
)

// ListKeyMap binds the list view keys
type ListKeyMap struct {
	Search      key.Binding
	Filter      key.Binding
	ClearFilter key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	FirstPage   key.Binding
	LastPage    key.Binding
	Toggle      key.Binding
	ToggleAll   key.Binding
	Refresh     key.Binding
	Bulk        key.Binding
	Copy        key.Binding
	Help        key.Binding
	Quit        key.Binding
	// Actions maps a row action name to its key
	Actions map[string]key.Binding
}

func DefaultListKeyMap() ListKeyMap {
	return ListKeyMap{
		Search:      newBinding([]string{"/"}, "tìm", "/"),
		Filter:      newBinding([]string{"f"}, "lọc", "f"),
		ClearFilter: newBinding([]string{escKey}, "xóa lọc", escKey),
		NextPage:    newBinding([]string{"n", "right"}, "trang sau", "n/→"),
		PrevPage:    newBinding([]string{"p", "left"}, "trang trước", "p/←"),
		FirstPage:   newBinding([]string{"home"}, "trang đầu", "home"),
		LastPage:    newBinding([]string{"end"}, "trang cuối", "end"),
		Toggle:      newBinding([]string{" "}, "chọn", "space"),
		ToggleAll:   newBinding([]string{"a"}, "chọn trang", "a"),
		Refresh:     newBinding([]string{"r"}, "tải lại", "r"),
		Bulk:        newBinding([]string{"s"}, "trạng thái", "s"),
		Copy:        newBinding([]string{"y"}, "sao chép", "y"),
		Help:        newBinding([]string{"?"}, "phím tắt", "?"),
		Quit:        newBinding([]string{"q", "ctrl+c"}, "thoát", "q"),
		Actions: map[string]key.Binding{
			tables.ActionView:   newBinding([]string{"enter"}, "xem chi tiết", "enter"),
			tables.ActionEdit:   newBinding([]string{"e"}, "sửa", "e"),
			tables.ActionDelete: newBinding([]string{"d"}, "xóa", "d"),
			tables.ActionCancel: newBinding([]string{"c"}, "hủy đơn", "c"),
			tables.ActionBan:    newBinding([]string{"b"}, "khóa", "b"),
			tables.ActionUnban:  newBinding([]string{"u"}, "mở khóa", "u"),
		},
	}
}

func newBinding(keys []string, desc, display string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(display, desc),
	)
}

// confirmed actions ask before running
var confirmedActions = []string{tables.ActionDelete, tables.ActionCancel, tables.ActionBan}

type (
	viewChangedMsg struct{}
	toastTickMsg   struct{}
	opDoneMsg      struct {
		op  string
		err error
	}
)

// ListView renders one admin table on top of a list controller.
type ListView[T any] struct {
	models.Screen
	table     *tables.Table[T]
	ctrl      *listctl.Controller[T]
	toasts    *notify.Queue
	detail    *DetailPane
	keys      ListKeyMap
	grid      table.Model
	spinner   spinner.Model
	input     textinput.Model
	help      help.Model
	shortcuts KeyboardShortcuts
	prompt    promptMode
	form      *FormWrapper
	submit    func() tea.Cmd
	view      listctl.View[T]
	updates   chan struct{}
	status    string
}

// NewListView builds the controller for tbl from opts and wraps it. The
// caller owns the returned view's controller and closes it via Close.
func NewListView[T any](
	ctx context.Context,
	tbl *tables.Table[T],
	opts listctl.Options[T],
	toasts *notify.Queue,
	detail *DetailPane,
) (*ListView[T], error) {
	if detail == nil {
		detail = NewDetailPane()
	}
	lv := &ListView[T]{
		Screen:  models.NewScreen(ctx),
		table:   tbl,
		toasts:  toasts,
		detail:  detail,
		keys:    DefaultListKeyMap(),
		help:    help.New(),
		updates: make(chan struct{}, 1),
	}
	render := opts.OnRender
	opts.OnRender = func(v listctl.View[T]) {
		if render != nil {
			render(v)
		}
		lv.signal()
	}
	ctrl, err := listctl.New(ctx, opts)
	if err != nil {
		return nil, err
	}
	lv.ctrl = ctrl
	detail.setOnChange(lv.signal)

	lv.grid = table.New(
		table.WithColumns(lv.columns(0)),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithKeyMap(gridKeyMap()),
	)
	lv.grid.SetStyles(gridStyles())
	lv.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.SpinnerStyle))
	lv.input = textinput.New()
	lv.input.CharLimit = 120
	actions := make([]string, 0, len(tbl.RowActions))
	for _, a := range tbl.RowActions {
		actions = append(actions, a.Name)
	}
	_, bulk := tbl.BulkChoices[tables.BulkStatus]
	lv.shortcuts = NewKeyboardShortcuts(lv.keys, actions, bulk)
	lv.view = ctrl.View()
	lv.syncRows()
	return lv, nil
}

// gridKeyMap keeps only row movement so list keys reach the view
func gridKeyMap() table.KeyMap {
	km := table.DefaultKeyMap()
	km.LineUp = key.NewBinding(key.WithKeys("up", "k"))
	km.LineDown = key.NewBinding(key.WithKeys("down", "j"))
	km.PageUp = key.NewBinding(key.WithKeys("pgup"))
	km.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	km.HalfPageUp = key.NewBinding(key.WithDisabled())
	km.HalfPageDown = key.NewBinding(key.WithDisabled())
	km.GotoTop = key.NewBinding(key.WithDisabled())
	km.GotoBottom = key.NewBinding(key.WithDisabled())
	return km
}

func gridStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.Highlight).
		Background(styles.Surface).
		Bold(true)
	return s
}

// Controller exposes the controller for the hosting command
func (lv *ListView[T]) Controller() *listctl.Controller[T] {
	return lv.ctrl
}

// Close releases the controller
func (lv *ListView[T]) Close() error {
	return lv.ctrl.Close()
}

func (lv *ListView[T]) signal() {
	select {
	case lv.updates <- struct{}{}:
	default:
	}
}

func (lv *ListView[T]) waitForChange() tea.Cmd {
	ctx := lv.Context()
	return func() tea.Msg {
		select {
		case <-lv.updates:
			return viewChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func toastTick() tea.Cmd {
	return tea.Tick(toastInterval, func(time.Time) tea.Msg { return toastTickMsg{} })
}

// run executes op off the UI goroutine
func (lv *ListView[T]) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := lv.Context()
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func (lv *ListView[T]) Init() tea.Cmd {
	return tea.Batch(
		lv.spinner.Tick,
		lv.waitForChange(),
		toastTick(),
		lv.run("load", lv.ctrl.Load),
	)
}

func (lv *ListView[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd := lv.Screen.Update(msg); cmd != nil {
		return lv, cmd
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		lv.resize(msg.Width, msg.Height)
		return lv, nil
	case viewChangedMsg:
		lv.refresh()
		return lv, lv.waitForChange()
	case toastTickMsg:
		return lv, toastTick()
	case opDoneMsg:
		lv.refresh()
		lv.report(msg)
		return lv, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		lv.spinner, cmd = lv.spinner.Update(msg)
		return lv, cmd
	case FormDoneMsg:
		submit := lv.submit
		lv.form, lv.submit = nil, nil
		if msg.Canceled || submit == nil {
			return lv, nil
		}
		return lv, submit()
	}
	if lv.form != nil {
		_, cmd := lv.form.Update(msg)
		return lv, cmd
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return lv, nil
	}
	if lv.shortcuts.Update(keyMsg) {
		return lv, nil
	}
	if lv.prompt != promptNone {
		return lv, lv.updatePrompt(keyMsg)
	}
	return lv, lv.handleKey(keyMsg)
}

func (lv *ListView[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	lv.status = ""
	current := lv.view.Page.Current
	switch {
	case key.Matches(msg, lv.keys.Quit):
		lv.Leave()
		return tea.Quit
	case key.Matches(msg, lv.keys.Help):
		lv.shortcuts.Toggle()
		return nil
	case key.Matches(msg, lv.keys.Search):
		return lv.openPrompt(promptSearch, lv.view.Search, "tên, mã, email...")
	case key.Matches(msg, lv.keys.Filter):
		return lv.openPrompt(promptFilter, "", strings.Join(lv.table.FilterNames(), "|")+"=giá trị")
	case key.Matches(msg, lv.keys.ClearFilter):
		if lv.detail.Visible() {
			lv.detail.Hide()
			return nil
		}
		return lv.run("clear filters", lv.ctrl.ClearFilters)
	case key.Matches(msg, lv.keys.NextPage):
		return lv.goTo(current + 1)
	case key.Matches(msg, lv.keys.PrevPage):
		return lv.goTo(current - 1)
	case key.Matches(msg, lv.keys.FirstPage):
		return lv.goTo(1)
	case key.Matches(msg, lv.keys.LastPage):
		return lv.goTo(lv.view.TotalPages)
	case key.Matches(msg, lv.keys.Refresh):
		return lv.run("load", lv.ctrl.Load)
	case key.Matches(msg, lv.keys.Toggle):
		if row, ok := lv.cursorRow(); ok {
			lv.apply(lv.ctrl.ToggleSelect(row.ID))
		}
		return nil
	case key.Matches(msg, lv.keys.ToggleAll):
		lv.apply(lv.ctrl.ToggleSelectAll(!lv.view.PageSelected))
		return nil
	case key.Matches(msg, lv.keys.Copy):
		lv.copySelection()
		return nil
	case key.Matches(msg, lv.keys.Bulk):
		return lv.openBulkForm()
	}
	if idx, ok := sortIndex(msg); ok {
		return lv.sortBy(idx)
	}
	if cmd, ok := lv.rowAction(msg); ok {
		return cmd
	}
	var cmd tea.Cmd
	lv.grid, cmd = lv.grid.Update(msg)
	return cmd
}

func sortIndex(msg tea.KeyMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}

func (lv *ListView[T]) sortBy(idx int) tea.Cmd {
	if idx >= len(lv.table.Columns) {
		return nil
	}
	col := lv.table.Columns[idx]
	if !col.Sortable {
		lv.status = fmt.Sprintf("Cột %q không hỗ trợ sắp xếp", col.Title)
		return nil
	}
	return lv.run("sort", func(ctx context.Context) error {
		return lv.ctrl.SetSort(ctx, col.Key)
	})
}

func (lv *ListView[T]) goTo(page int) tea.Cmd {
	if page < 1 || page > lv.view.TotalPages || page == lv.view.Page.Current {
		return nil
	}
	return lv.run("page", func(ctx context.Context) error {
		return lv.ctrl.GoToPage(ctx, page)
	})
}

func (lv *ListView[T]) rowAction(msg tea.KeyMsg) (tea.Cmd, bool) {
	row, ok := lv.cursorRow()
	if !ok {
		return nil, false
	}
	for _, name := range row.Actions {
		binding, bound := lv.keys.Actions[name]
		if !bound || !key.Matches(msg, binding) {
			continue
		}
		id := row.ID
		action := func() tea.Cmd {
			return lv.run(name, func(ctx context.Context) error {
				return lv.ctrl.RunRowAction(ctx, name, id)
			})
		}
		if !slices.Contains(confirmedActions, name) {
			return action(), true
		}
		confirm := false
		form := NewConfirmForm(fmt.Sprintf("%s %s?", binding.Help().Desc, id), &confirm)
		return lv.openForm(form, func() tea.Cmd {
			if !confirm {
				return nil
			}
			return action()
		}), true
	}
	return nil, false
}

func (lv *ListView[T]) openBulkForm() tea.Cmd {
	choices, ok := lv.table.BulkChoices[tables.BulkStatus]
	if !ok {
		return nil
	}
	if lv.view.SelectedCount == 0 {
		lv.status = "Chưa chọn mục nào"
		return nil
	}
	data := &BulkFormData{}
	form := NewBulkForm(tables.BulkStatus, choices, lv.view.SelectedCount, data)
	return lv.openForm(form, func() tea.Cmd {
		if !data.Confirm {
			return nil
		}
		return lv.run("bulk", func(ctx context.Context) error {
			return lv.ctrl.RunBulkAction(ctx, tables.BulkStatus, data.Value)
		})
	})
}

func (lv *ListView[T]) openForm(form *huh.Form, submit func() tea.Cmd) tea.Cmd {
	lv.form = NewFormWrapper(lv.Context(), form).Embedded()
	lv.submit = submit
	return lv.form.Init()
}

func (lv *ListView[T]) copySelection() {
	ids := lv.ctrl.Selected()
	if len(ids) == 0 {
		if row, ok := lv.cursorRow(); ok {
			ids = []string{row.ID}
		}
	}
	if len(ids) == 0 {
		return
	}
	if err := clipboard.WriteAll(strings.Join(ids, "\n")); err != nil {
		lv.toast(notify.LevelWarning, fmt.Sprintf("Không thể sao chép: %v", err))
		return
	}
	lv.toast(notify.LevelInfo, fmt.Sprintf("Đã sao chép %d mã", len(ids)))
}

func (lv *ListView[T]) toast(level notify.Level, message string) {
	if lv.toasts != nil {
		lv.toasts.Notify(level, message)
	}
}

func (lv *ListView[T]) openPrompt(mode promptMode, value, placeholder string) tea.Cmd {
	lv.prompt = mode
	lv.input.SetValue(value)
	lv.input.CursorEnd()
	lv.input.Placeholder = placeholder
	lv.input.Prompt = "/ "
	if mode == promptFilter {
		lv.input.Prompt = "lọc: "
	}
	lv.input.PromptStyle = styles.PromptStyle
	return lv.input.Focus()
}

func (lv *ListView[T]) closePrompt() {
	lv.prompt = promptNone
	lv.input.Blur()
}

func (lv *ListView[T]) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		lv.closePrompt()
		return nil
	case tea.KeyEnter:
		value := lv.input.Value()
		mode := lv.prompt
		lv.closePrompt()
		if mode == promptSearch {
			return lv.run("search", func(ctx context.Context) error {
				return lv.ctrl.SetSearchTerm(ctx, value)
			})
		}
		return lv.applyFilter(value)
	}
	var cmd tea.Cmd
	lv.input, cmd = lv.input.Update(msg)
	if lv.prompt == promptSearch {
		lv.ctrl.SearchInput(lv.input.Value())
	}
	return cmd
}

// applyFilter parses "name=value"; an empty value clears that filter
func (lv *ListView[T]) applyFilter(expr string) tea.Cmd {
	name, value, ok := strings.Cut(expr, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		lv.status = "Cú pháp lọc: tên=giá trị"
		return nil
	}
	if f, known := lv.table.Filter(name); known && f.Kind == listctl.FilterEnum {
		value = strings.ToUpper(strings.TrimSpace(value))
	}
	return lv.run("filter", func(ctx context.Context) error {
		return lv.ctrl.SetFilter(ctx, name, value)
	})
}

func (lv *ListView[T]) apply(err error) {
	lv.refresh()
	lv.report(opDoneMsg{err: err})
}

// report surfaces errors the controller does not toast itself
func (lv *ListView[T]) report(msg opDoneMsg) {
	switch {
	case msg.err == nil, errors.Is(msg.err, listctl.ErrClosed):
	case errors.Is(msg.err, listctl.ErrValidation), errors.Is(msg.err, listctl.ErrNotFound):
		lv.status = msg.err.Error()
	}
}

func (lv *ListView[T]) refresh() {
	v := lv.ctrl.View()
	if v.Version < lv.view.Version {
		return
	}
	lv.view = v
	lv.syncRows()
}

func (lv *ListView[T]) cursorRow() (listctl.Row[T], bool) {
	i := lv.grid.Cursor()
	if i < 0 || i >= len(lv.view.Rows) {
		return listctl.Row[T]{}, false
	}
	return lv.view.Rows[i], true
}

func (lv *ListView[T]) resize(width, height int) {
	lv.shortcuts.SetSize(width, height)
	lv.help.Width = width
	lv.input.Width = max(10, width-12)
	lv.grid.SetHeight(lv.BodyHeight(chromeHeight))
	lv.grid.SetColumns(lv.columns(width))
}

func (lv *ListView[T]) columns(width int) []table.Column {
	widths := make([]int, len(lv.table.Columns))
	for i, c := range lv.table.Columns {
		widths[i] = c.Width
	}
	widths = fitWidths(widths, width-markerWidth-2*len(widths))
	cols := make([]table.Column, 0, len(widths)+1)
	cols = append(cols, table.Column{Title: "", Width: markerWidth})
	for i, c := range lv.table.Columns {
		title := c.Title
		if lv.view.Sort.Column == c.Key {
			title += sortArrow(lv.view.Sort.Direction)
		}
		cols = append(cols, table.Column{Title: title, Width: widths[i]})
	}
	return cols
}

// fitWidths shrinks widths proportionally to fit available, keeping 4 cells each
func fitWidths(widths []int, available int) []int {
	total := 0
	for _, w := range widths {
		total += w
	}
	if available <= 0 || total <= available {
		return widths
	}
	out := make([]int, len(widths))
	for i, w := range widths {
		out[i] = max(4, w*available/total)
	}
	return out
}

func sortArrow(d listctl.Direction) string {
	if d == listctl.Desc {
		return " ▼"
	}
	return " ▲"
}

func (lv *ListView[T]) syncRows() {
	width, _ := lv.Size()
	lv.grid.SetColumns(lv.columns(width))
	rows := make([]table.Row, 0, len(lv.view.Rows))
	for _, r := range lv.view.Rows {
		mark := "[ ]"
		if r.Selected {
			mark = "[x]"
		}
		rows = append(rows, append(table.Row{mark}, lv.table.Cells(r.Item)...))
	}
	lv.grid.SetRows(rows)
	// an empty render leaves the cursor at -1
	if c := lv.grid.Cursor(); c < 0 || c >= len(rows) {
		lv.grid.SetCursor(max(0, min(c, len(rows)-1)))
	}
}

func (lv *ListView[T]) View() string {
	if lv.Leaving() {
		return ""
	}
	if lv.shortcuts.Visible {
		return lv.shortcuts.View()
	}
	width, _ := lv.Size()
	sections := []string{lv.renderHeader()}
	switch {
	case lv.form != nil:
		sections = append(sections, styles.DialogStyle.Render(lv.form.View()))
	case lv.view.Empty && lv.view.State != listctl.StateLoading:
		sections = append(sections, styles.HelpStyle.Padding(1, 2).Render(lv.view.EmptyMessage))
	default:
		sections = append(sections, lv.grid.View())
	}
	if bar := RenderPagination(lv.view.Pagination); bar != "" {
		sections = append(sections, bar)
	}
	sections = append(sections, styles.PaginationStyle.Render(lv.view.Caption.Text))
	if detail := lv.detail.View(width); detail != "" {
		sections = append(sections, detail)
	}
	switch {
	case lv.prompt != promptNone:
		sections = append(sections, lv.input.View())
	case lv.status != "":
		sections = append(sections, styles.WarningStyle.Render(lv.status))
	}
	if lv.toasts != nil {
		if t := RenderToasts(lv.toasts.Visible(), width); t != "" {
			sections = append(sections, t)
		}
	}
	sections = append(sections, lv.help.ShortHelpView(lv.shortHelp()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (lv *ListView[T]) renderHeader() string {
	parts := []string{styles.RenderTitle(lv.table.Title)}
	if lv.view.State == listctl.StateLoading {
		parts = append(parts, lv.spinner.View())
	}
	if s := lv.view.Sort; s.Column != "" {
		parts = append(parts, styles.InfoStyle.Render(fmt.Sprintf("Sắp xếp: %s %s", s.Column, s.Direction)))
	}
	if lv.view.Search != "" {
		parts = append(parts, styles.WarningStyle.Render(fmt.Sprintf("Tìm: %s", lv.view.Search)))
	}
	if len(lv.view.Filters) > 0 {
		names := make([]string, 0, len(lv.view.Filters))
		for name := range lv.view.Filters {
			names = append(names, name)
		}
		slices.Sort(names)
		for i, name := range names {
			names[i] = name + "=" + lv.view.Filters[name]
		}
		parts = append(parts, styles.WarningStyle.Render("Lọc: "+strings.Join(names, ", ")))
	}
	if lv.view.SelectedCount > 0 {
		parts = append(parts, styles.SelectedMarkStyle.Render(fmt.Sprintf("Đã chọn: %d", lv.view.SelectedCount)))
	}
	if lv.view.State == listctl.StateError {
		parts = append(parts, styles.ErrorStyle.Render("Lỗi tải dữ liệu"))
	}
	return strings.Join(parts, " • ")
}

func (lv *ListView[T]) shortHelp() []key.Binding {
	bindings := []key.Binding{lv.keys.Search, lv.keys.Filter, lv.keys.NextPage, lv.keys.PrevPage, lv.keys.Toggle}
	if row, ok := lv.cursorRow(); ok {
		for _, name := range row.Actions {
			if b, bound := lv.keys.Actions[name]; bound {
				bindings = append(bindings, b)
			}
		}
	}
	return append(bindings, lv.keys.Help, lv.keys.Quit)
}
