package components

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/liora-cosmetic/liora/cli/tui/models"
)

// FormWrapper runs a huh form either as a program of its own or inside a
// list view. Embedded forms report FormDoneMsg instead of quitting.
type FormWrapper struct {
	models.Screen
	form      *huh.Form
	embedded  bool
	canceled  bool
	completed bool
}

// FormDoneMsg is sent by an embedded form once it is submitted or aborted
type FormDoneMsg struct {
	Canceled bool
}

func NewFormWrapper(ctx context.Context, form *huh.Form) *FormWrapper {
	return &FormWrapper{
		Screen: models.NewScreen(ctx),
		form:   form,
	}
}

// Embedded marks the form as hosted by another model
func (f *FormWrapper) Embedded() *FormWrapper {
	f.embedded = true
	return f
}

func (f *FormWrapper) Init() tea.Cmd {
	return f.form.Init()
}

func (f *FormWrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c", escKey:
			f.canceled = true
			return f, f.finish()
		}
	}
	f.Screen.Update(msg)
	form, cmd := f.form.Update(msg)
	if frm, ok := form.(*huh.Form); ok {
		f.form = frm
		switch f.form.State {
		case huh.StateCompleted:
			f.completed = true
			return f, f.finish()
		case huh.StateAborted:
			f.canceled = true
			return f, f.finish()
		}
	}
	return f, cmd
}

func (f *FormWrapper) finish() tea.Cmd {
	if !f.embedded {
		return tea.Quit
	}
	canceled := f.canceled
	return func() tea.Msg { return FormDoneMsg{Canceled: canceled} }
}

func (f *FormWrapper) View() string {
	if f.completed || f.canceled {
		return ""
	}
	return f.form.View()
}

func (f *FormWrapper) IsCanceled() bool {
	return f.canceled
}

func (f *FormWrapper) IsCompleted() bool {
	return f.completed
}

// Run executes a standalone form and reports whether it was completed
func (f *FormWrapper) Run() (bool, error) {
	if _, err := tea.NewProgram(f).Run(); err != nil {
		return false, fmt.Errorf("failed to run form: %w", err)
	}
	return f.completed && !f.canceled, nil
}

// BulkFormData holds the answers of the bulk status form
type BulkFormData struct {
	Value   string
	Confirm bool
}

// NewBulkForm asks for one of choices and a confirmation for count rows
func NewBulkForm(action string, choices []string, count int, data *BulkFormData) *huh.Form {
	options := make([]huh.Option[string], 0, len(choices))
	for _, c := range choices {
		options = append(options, huh.NewOption(c, c))
	}
	if data.Value == "" && len(choices) > 0 {
		data.Value = choices[0]
	}
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(fmt.Sprintf("Cập nhật %s", action)).
			Description(fmt.Sprintf("%d mục đã chọn", count)).
			Options(options...).
			Value(&data.Value),
		huh.NewConfirm().
			Title("Xác nhận thao tác?").
			Affirmative("Đồng ý").
			Negative("Hủy").
			Value(&data.Confirm),
	)).WithShowHelp(true)
}

// NewConfirmForm asks a yes/no question
func NewConfirmForm(title string, value *bool) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Đồng ý").
			Negative("Hủy").
			Value(value),
	))
}

// LoginFormData holds the credentials typed at login
type LoginFormData struct {
	Email    string
	Password string
}

func NewLoginForm(data *LoginFormData) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Email").
			Description("Tài khoản quản trị Liora").
			Value(&data.Email).
			Validate(validateEmail),
		huh.NewInput().
			Title("Mật khẩu").
			EchoMode(huh.EchoModePassword).
			Value(&data.Password).
			Validate(validatePassword),
	))
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return errors.New("invalid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if s == "" {
		return errors.New("password is required")
	}
	return nil
}
