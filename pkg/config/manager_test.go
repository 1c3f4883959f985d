package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	t.Run("Should notify on change and keep the config when a reload fails", func(t *testing.T) {
		source := &mockSource{sourceType: SourceYAML, data: map[string]any{
			"lists": map[string]any{"page_size": 15},
		}}
		m := NewManager(NewService(WithEnviron(emptyEnviron)))
		var seen []int
		m.OnChange(func(c *Config) { seen = append(seen, c.Lists.PageSize) })

		cfg, err := m.Load(t.Context(), source)
		require.NoError(t, err)
		assert.Equal(t, 15, cfg.Lists.PageSize)

		require.NoError(t, m.Reload(t.Context()))
		source.data = map[string]any{"lists": map[string]any{"page_size": 40}}
		require.NoError(t, m.Reload(t.Context()))
		assert.Equal(t, []int{15, 40}, seen)

		source.data = map[string]any{"lists": map[string]any{"page_size": -1}}
		assert.Error(t, m.Reload(t.Context()))
		assert.Equal(t, 40, m.Get().Lists.PageSize)

		require.NoError(t, m.Close(t.Context()))
		assert.True(t, source.closed)
	})
}

func TestFromContext(t *testing.T) {
	t.Run("Should prefer the manager stored in context", func(t *testing.T) {
		m := NewManager(NewService(WithEnviron(emptyEnviron)))
		_, err := m.Load(t.Context(), &mockSource{sourceType: SourceYAML, data: map[string]any{
			"api": map[string]any{"base_url": "https://ctx.liora.vn"},
		}})
		require.NoError(t, err)
		ctx := ContextWithManager(t.Context(), m)
		assert.Equal(t, "https://ctx.liora.vn", FromContext(ctx).API.BaseURL)
	})

	t.Run("Should fall back to a default configuration", func(t *testing.T) {
		cfg := FromContext(context.Background())
		require.NotNil(t, cfg)
		assert.NotEmpty(t, cfg.API.Endpoints.Orders)
	})
}
