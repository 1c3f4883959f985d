package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/liora-cosmetic/liora/cli/api"
	"github.com/liora-cosmetic/liora/cli/tui/models"
	"github.com/liora-cosmetic/liora/pkg/listctl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCliError(t *testing.T) {
	t.Run("Should implement error interface", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message")
		assert.Equal(t, "TEST_ERROR: Test message", err.Error())
		assert.NotNil(t, err.Context)

		errWithDetails := NewCliError("TEST_ERROR", "Test message", "Details")
		assert.Equal(t, "TEST_ERROR: Test message (Details)", errWithDetails.Error())
		errWithDetails.WithContext("id", "42")
		assert.Equal(t, "42", errWithDetails.Context["id"])
	})
}

func TestCategorizeError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"canceled", fmt.Errorf("load: %w", context.Canceled), CodeCanceled},
		{"deadline", context.DeadlineExceeded, CodeTimeout},
		{"slow network", &listctl.NetworkError{Op: "list", Timeout: true}, CodeTimeout},
		{"server error", listctl.NewNetworkError("list", 500, nil), CodeNetwork},
		{"unauthorized", &listctl.NetworkError{Op: "list", Status: 401, Cause: api.ErrUnauthorized}, CodeAuth},
		{"validation", listctl.NewValidationError("filter", "x", "unknown filter"), CodeValidation},
		{"not found", &listctl.NotFoundError{ID: "7"}, CodeNotFound},
		{"other", errors.New("boom"), CodeInternal},
	}
	for _, tc := range cases {
		t.Run("Should map "+tc.name, func(t *testing.T) {
			cliErr := CategorizeError(tc.err)
			require.NotNil(t, cliErr)
			assert.Equal(t, tc.code, cliErr.Code)
			assert.ErrorIs(t, cliErr, tc.err)
		})
	}

	t.Run("Should keep existing CLI errors and nil", func(t *testing.T) {
		original := NewCliError("MISSING_FLAG", "flag required")
		assert.Same(t, original, CategorizeError(fmt.Errorf("wrapped: %w", original)))
		assert.Nil(t, CategorizeError(nil))
	})
}

func TestOutputError(t *testing.T) {
	t.Run("Should write structured JSON errors", func(t *testing.T) {
		var buf bytes.Buffer
		OutputError(&buf, &listctl.NotFoundError{ID: "7"}, models.ModeJSON)
		var out map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, CodeNotFound, out["code"])
		assert.Contains(t, out["details"], `"7"`)
	})

	t.Run("Should write readable TUI errors", func(t *testing.T) {
		var buf bytes.Buffer
		OutputError(&buf, listctl.NewNetworkError("list orders", 502, nil), models.ModeTUI)
		assert.Contains(t, buf.String(), "Network request failed")
		assert.Contains(t, buf.String(), "status 502")
	})

	t.Run("Should ignore nil errors", func(t *testing.T) {
		var buf bytes.Buffer
		OutputError(&buf, nil, models.ModeTUI)
		assert.Empty(t, buf.String())
	})
}
