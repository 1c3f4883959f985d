package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/liora-cosmetic/liora/cli/api"
	"github.com/liora-cosmetic/liora/cli/tui/models"
	"github.com/liora-cosmetic/liora/pkg/listctl"
)

// Error codes reported by commands
const (
	CodeNetwork    = "NETWORK_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeTimeout    = "OPERATION_TIMEOUT"
	CodeCanceled   = "OPERATION_CANCELED"
	CodeAuth       = "AUTH_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

// CliError represents a CLI-specific error with enhanced context
type CliError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	cause     error
}

func (e *CliError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CliError) Unwrap() error {
	return e.cause
}

// NewCliError creates a new CLI error with context
func NewCliError(code, message string, details ...string) *CliError {
	err := &CliError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]any),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WithContext adds context to the error
func (e *CliError) WithContext(key string, value any) *CliError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func (e *CliError) wrap(cause error) *CliError {
	e.cause = cause
	return e
}

func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr *listctl.NetworkError
	return errors.As(err, &netErr) && netErr.Timeout
}

func IsNetworkError(err error) bool {
	return err != nil && errors.Is(err, listctl.ErrNetwork)
}

func IsAuthError(err error) bool {
	return err != nil && errors.Is(err, api.ErrUnauthorized)
}

// CategorizeError converts an error to a structured CLI error; nil stays nil.
func CategorizeError(err error) *CliError {
	if err == nil {
		return nil
	}
	var cliErr *CliError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	var out *CliError
	switch {
	case errors.Is(err, context.Canceled):
		out = NewCliError(CodeCanceled, "Operation was canceled by user")
	case IsAuthError(err):
		out = NewCliError(CodeAuth, "Authentication failed", err.Error())
	case IsTimeoutError(err):
		out = NewCliError(CodeTimeout, "Operation timed out", err.Error())
	case IsNetworkError(err):
		out = NewCliError(CodeNetwork, "Network request failed", err.Error())
	case errors.Is(err, listctl.ErrValidation):
		out = NewCliError(CodeValidation, "Invalid input", err.Error())
	case errors.Is(err, listctl.ErrNotFound):
		out = NewCliError(CodeNotFound, "Item not found", err.Error())
	default:
		out = NewCliError(CodeInternal, err.Error())
	}
	return out.wrap(err)
}

// FormatError formats errors based on output mode
func FormatError(err error, mode models.Mode) string {
	if err == nil {
		return ""
	}
	cliErr := CategorizeError(err)
	if mode == models.ModeJSON {
		return formatErrorJSON(cliErr)
	}
	return formatErrorTUI(cliErr)
}

func formatErrorJSON(err *CliError) string {
	response := map[string]any{
		"code":    err.Code,
		"error":   err.Message,
		"details": err.Details,
	}
	data, marshalErr := json.MarshalIndent(response, "", "  ")
	if marshalErr != nil {
		return `{"error": "JSON marshaling failed", "details": ""}`
	}
	return string(data)
}

func formatErrorTUI(err *CliError) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	result := fmt.Sprintf("%s %s", errorIcon(err.Code), style.Render(err.Message))
	if err.Details != "" && !strings.EqualFold(err.Details, err.Message) {
		detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
		result += "\n" + detailStyle.Render("Details: "+err.Details)
	}
	return result
}

func errorIcon(code string) string {
	switch code {
	case CodeNetwork:
		return "🌐"
	case CodeAuth:
		return "🔐"
	case CodeTimeout:
		return "⏰"
	default:
		return "❌"
	}
}

// OutputError writes err to w in the format of mode
func OutputError(w io.Writer, err error, mode models.Mode) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, FormatError(err, mode))
}
