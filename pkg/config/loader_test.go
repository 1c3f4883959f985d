package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	data       map[string]any
	sourceType SourceType
	err        error
	closed     bool
}

func (m *mockSource) Load() (map[string]any, error) {
	return m.data, m.err
}

func (m *mockSource) Type() SourceType {
	return m.sourceType
}

func (m *mockSource) Close() error {
	m.closed = true
	return nil
}

func emptyEnviron() []string { return nil }

func TestLoader_Load(t *testing.T) {
	t.Run("Should load default configuration when no sources provided", func(t *testing.T) {
		cfg, err := NewService(WithEnviron(emptyEnviron)).Load(t.Context())
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
		assert.Equal(t, 8*time.Second, cfg.API.Timeout)
		assert.Equal(t, "/admin/api/orders", cfg.API.Endpoints.Orders)
		assert.Equal(t, "/api/products", cfg.API.Endpoints.Products)
		assert.Equal(t, 10, cfg.Lists.PageSize)
		assert.Equal(t, 300*time.Millisecond, cfg.Lists.SearchDebounce)
		assert.Equal(t, 5*time.Second, cfg.Notify.ErrorTimeout)
		assert.Equal(t, 3*time.Second, cfg.Notify.InfoTimeout)
	})

	t.Run("Should apply sources in order and keep untouched keys", func(t *testing.T) {
		svc := NewService(WithEnviron(emptyEnviron))
		file := &mockSource{sourceType: SourceYAML, data: map[string]any{
			"api":   map[string]any{"base_url": "https://shop.liora.vn", "timeout": "12s"},
			"lists": map[string]any{"page_size": 25},
		}}
		cfg, err := svc.Load(t.Context(), file)
		require.NoError(t, err)
		assert.Equal(t, "https://shop.liora.vn", cfg.API.BaseURL)
		assert.Equal(t, 12*time.Second, cfg.API.Timeout)
		assert.Equal(t, 25, cfg.Lists.PageSize)
		assert.Equal(t, DefaultUsersPath, cfg.API.Endpoints.Users)
		assert.Equal(t, SourceYAML, svc.GetSource("lists.page_size"))
		assert.Equal(t, SourceDefault, svc.GetSource("lists.timezone"))
	})

	t.Run("Should let the environment override files and flags override the environment", func(t *testing.T) {
		environ := func() []string {
			return []string{
				"LIORA_API_BASE_URL=https://env.liora.vn",
				"LIORA_API_TOKEN=env-token",
				"LIORA_LIST_PAGE_SIZE=30",
				"LIORA_LISTS_REMOTE_PAGING=true",
				"PATH=/usr/bin",
			}
		}
		svc := NewService(WithEnviron(environ))
		file := &mockSource{sourceType: SourceYAML, data: map[string]any{
			"api": map[string]any{"base_url": "https://file.liora.vn"},
		}}
		flags := NewCLIProvider(map[string]any{"page-size": 50, "unknown": true})
		cfg, err := svc.Load(t.Context(), flags, file)
		require.NoError(t, err)
		assert.Equal(t, "https://env.liora.vn", cfg.API.BaseURL)
		assert.Equal(t, "env-token", cfg.API.Token.Value())
		assert.Equal(t, 50, cfg.Lists.PageSize)
		assert.True(t, cfg.Lists.RemotePaging)
		assert.Equal(t, SourceEnv, svc.GetSource("api.base_url"))
		assert.Equal(t, SourceCLI, svc.GetSource("lists.page_size"))
	})

	t.Run("Should reject invalid values", func(t *testing.T) {
		cases := map[string]map[string]any{
			"page size":  {"lists": map[string]any{"page_size": 0}},
			"base url":   {"api": map[string]any{"base_url": "not a url"}},
			"endpoint":   {"api": map[string]any{"endpoints": map[string]any{"orders": "admin/api/orders"}}},
			"log level":  {"runtime": map[string]any{"log_level": "verbose"}},
			"timezone":   {"lists": map[string]any{"timezone": "Mars/Olympus"}},
			"mode":       {"cli": map[string]any{"mode": "gui"}},
			"toast time": {"notify": map[string]any{"error_timeout": "1s"}},
		}
		for name, data := range cases {
			svc := NewService(WithEnviron(emptyEnviron))
			_, err := svc.Load(t.Context(), &mockSource{sourceType: SourceYAML, data: data})
			assert.Error(t, err, name)
		}
	})

	t.Run("Should propagate source errors", func(t *testing.T) {
		svc := NewService(WithEnviron(emptyEnviron))
		_, err := svc.Load(t.Context(), &mockSource{sourceType: SourceYAML, err: os.ErrPermission})
		assert.ErrorIs(t, err, os.ErrPermission)
	})
}

func TestTransformEnvKey(t *testing.T) {
	t.Run("Should map prefixed variables to dotted paths", func(t *testing.T) {
		assert.Equal(t, "lists.page_size", transformEnvKey("LIORA_LISTS_PAGE_SIZE"))
		assert.Equal(t, "mode", transformEnvKey("LIORA_MODE"))
		assert.Equal(t, "api.base_url", transformEnvKey("LIORA__API__BASE_URL"))
		assert.Equal(t, "", transformEnvKey("LIORA_"))
	})
}

func TestYAMLProvider(t *testing.T) {
	t.Run("Should read nested values and skip nulls", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultConfigFileName)
		content := "api:\n  base_url: https://yaml.liora.vn\n  token: null\nlists:\n  page_size: 20\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		data, err := NewYAMLProvider(path).Load()
		require.NoError(t, err)
		api, ok := data["api"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "https://yaml.liora.vn", api["base_url"])
		assert.NotContains(t, api, "token")

		cfg, err := NewService(WithEnviron(emptyEnviron)).Load(t.Context(), NewYAMLProvider(path))
		require.NoError(t, err)
		assert.Equal(t, 20, cfg.Lists.PageSize)
	})

	t.Run("Should treat a missing file as empty", func(t *testing.T) {
		data, err := NewYAMLProvider(filepath.Join(t.TempDir(), "absent.yaml")).Load()
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("Should report malformed YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o600))
		_, err := NewYAMLProvider(path).Load()
		assert.Error(t, err)
	})
}

func TestSetNested(t *testing.T) {
	t.Run("Should detect conflicts", func(t *testing.T) {
		m := map[string]any{"api": "flat"}
		assert.Error(t, setNested(m, "api.base_url", "x"))
	})
}

func TestEnvMappings(t *testing.T) {
	t.Run("Should expose env vars and sensitive paths", func(t *testing.T) {
		mapping := GenerateEnvToConfigMap()
		assert.Equal(t, "api.token", mapping["LIORA_API_TOKEN"])
		assert.Equal(t, "lists.page_size", mapping["LIORA_LIST_PAGE_SIZE"])
		assert.True(t, IsSensitiveConfigPath("api.token"))
		assert.False(t, IsSensitiveConfigPath("api.base_url"))
		assert.False(t, IsSensitiveConfigPath("api.missing.deeper"))
	})

	t.Run("Should walk nested sections and flag secrets", func(t *testing.T) {
		byPath := map[string]EnvMapping{}
		for _, m := range GenerateEnvMappings() {
			byPath[m.ConfigPath] = m
		}
		assert.Equal(t, "LIORA_ENDPOINT_ORDERS", byPath["api.endpoints.orders"].EnvVar)
		assert.True(t, byPath["api.token"].Sensitive)
		assert.False(t, byPath["api.timeout"].Sensitive)
		assert.NotContains(t, byPath, "api.endpoints")
	})
}
