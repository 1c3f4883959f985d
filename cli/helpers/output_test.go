package helpers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/liora-cosmetic/liora/cli/tui/models"
	"github.com/liora-cosmetic/liora/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputWriter(t *testing.T) {
	t.Run("Should align table columns", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewOutputWriter(&buf, OutputFormatTable).WithWidth(80)
		require.NoError(t, w.WriteData(nil, []string{"Mã", "Khách hàng"}, [][]string{{"LC-001", "Lan"}, {"LC-2", "Hoa"}}))
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "Mã      Khách hàng", lines[0])
		assert.Equal(t, "LC-001  Lan", lines[2])
	})

	t.Run("Should shrink wide columns to the width", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewOutputWriter(&buf, OutputFormatTable).WithWidth(20)
		require.NoError(t, w.WriteTable([]string{"A", "B"}, [][]string{{strings.Repeat("x", 30), "short"}}))
		for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
			assert.LessOrEqual(t, len([]rune(line)), 20)
		}
		assert.Contains(t, buf.String(), "…")
	})

	t.Run("Should write JSON data", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutputWriter(&buf, OutputFormatJSON).WriteData(map[string]int{"total": 3}, nil, nil))
		assert.JSONEq(t, `{"total":3}`, buf.String())
	})
}

func TestTruncate(t *testing.T) {
	t.Run("Should keep short strings and cut long ones", func(t *testing.T) {
		assert.Equal(t, "Son", Truncate("Son", 5))
		assert.Equal(t, "Kem c…", Truncate("Kem chống nắng", 6))
	})
}

func TestModeFor(t *testing.T) {
	t.Run("Should honor explicit modes and detect auto", func(t *testing.T) {
		cfg := config.Default()
		assert.Equal(t, models.ModeTUI, ModeFor(cfg, true))
		assert.Equal(t, models.ModeJSON, ModeFor(cfg, false))
		cfg.CLI.Mode = "json"
		assert.Equal(t, models.ModeJSON, ModeFor(cfg, true))
		cfg.CLI.Mode = "tui"
		assert.Equal(t, models.ModeTUI, ModeFor(cfg, false))
	})
}
