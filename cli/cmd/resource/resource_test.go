package resource_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/liora-cosmetic/liora/cli/cmd/resource"
	"github.com/liora-cosmetic/liora/pkg/config"
	"github.com/liora-cosmetic/liora/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersJSON = `{"content":[
	{"id":1,"orderCode":"LC-001","customerName":"Nguyễn Lan","totalAmount":150000,"status":"PENDING","paymentMethod":"COD","createdAt":"2024-05-01T09:00:00"},
	{"id":2,"orderCode":"LC-002","customerName":"Trần Mai","totalAmount":520000,"status":"DELIVERED","paymentMethod":"MOMO","createdAt":"2024-05-02T23:59:00"},
	{"id":3,"orderCode":"LC-003","customerName":"Lê Hoa","totalAmount":320000,"status":"CONFIRMED","paymentMethod":"COD","createdAt":"2024-05-03T08:00:00"}
],"totalElements":3}`

type server struct {
	mu       sync.Mutex
	requests []string
	bodies   []map[string]any
	auth     []string
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.auth = append(s.auth, r.Header.Get("Authorization"))
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == config.DefaultOrdersPath:
		_, _ = io.WriteString(w, ordersJSON)
	case r.Method == http.MethodGet && r.URL.Path == config.DefaultOrdersPath+"/1":
		_, _ = io.WriteString(w, `{"id":1,"orderCode":"LC-001","status":"PENDING","totalAmount":150000}`)
	case r.Method == http.MethodGet && r.URL.Path == config.DefaultOrdersPath+"/3":
		_, _ = io.WriteString(w, `{"data":{"id":3,"orderCode":"LC-003","status":"CONFIRMED","totalAmount":320000}}`)
	case r.Method == http.MethodPut:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.bodies = append(s.bodies, body)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"not found"}`)
	}
}

func (s *server) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func newCLIContext(t *testing.T, baseURL, token string) context.Context {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultConfigFileName)
	content := fmt.Sprintf(`api:
  base_url: %s
  token: %q
  retry_count: 0
  timeout: 2s
cli:
  mode: json
  session_file: %s
`, baseURL, token, filepath.Join(dir, "session.json"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	ctx := logger.ContextWithLogger(t.Context(), logger.NewLogger(logger.TestConfig()))
	manager := config.NewManager(config.NewService(config.WithEnviron(func() []string { return nil })))
	_, err := manager.Load(ctx, config.NewYAMLProvider(path))
	require.NoError(t, err)
	return config.ContextWithManager(ctx, manager)
}

func run(t *testing.T, srv *server, token string, args ...string) (string, string, error) {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	cmdObj := resource.OrdersCmd()
	cmdObj.SetContext(newCLIContext(t, ts.URL, token))
	var out, errOut bytes.Buffer
	cmdObj.SetOut(&out)
	cmdObj.SetErr(&errOut)
	cmdObj.SilenceErrors = true
	cmdObj.SilenceUsage = true
	cmdObj.SetArgs(args)
	err := cmdObj.Execute()
	return out.String(), errOut.String(), err
}

func TestListCommand(t *testing.T) {
	t.Run("Should print the filtered page as JSON", func(t *testing.T) {
		srv := &server{}
		out, _, err := run(t, srv, "secret", "list", "--filter", "status=pending")
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &payload))
		assert.EqualValues(t, 1, payload["filtered_count"])
		assert.EqualValues(t, 3, payload["total_count"])
		assert.Equal(t, "Hiển thị 1-1 trong tổng số 1", payload["caption"])
		items, ok := payload["items"].([]any)
		require.True(t, ok)
		require.Len(t, items, 1)
		assert.Equal(t, []string{"GET " + config.DefaultOrdersPath}, srv.seen())
		assert.Equal(t, "Bearer secret", srv.auth[0])
	})

	t.Run("Should render a table sorted descending", func(t *testing.T) {
		out, _, err := run(t, &server{}, "secret", "list", "--sort", "totalAmount", "--desc", "-o", "table")
		require.NoError(t, err)
		assert.Less(t, bytes.Index([]byte(out), []byte("LC-002")), bytes.Index([]byte(out), []byte("LC-003")))
		assert.Less(t, bytes.Index([]byte(out), []byte("LC-003")), bytes.Index([]byte(out), []byte("LC-001")))
		assert.Contains(t, out, "Hiển thị 1-3 trong tổng số 3")
	})

	t.Run("Should reject malformed filters and unknown sort columns", func(t *testing.T) {
		_, errOut, err := run(t, &server{}, "secret", "list", "--filter", "status")
		require.Error(t, err)
		assert.Contains(t, errOut, "VALIDATION_ERROR")

		_, _, err = run(t, &server{}, "secret", "list", "--sort", "paymentMethod")
		assert.Error(t, err)
	})

	t.Run("Should require a login", func(t *testing.T) {
		srv := &server{}
		_, errOut, err := run(t, srv, "", "list")
		require.Error(t, err)
		assert.Contains(t, errOut, "AUTH_ERROR")
		assert.Empty(t, srv.seen())
	})
}

func TestActionCommands(t *testing.T) {
	t.Run("Should require --yes before cancelling in JSON mode", func(t *testing.T) {
		srv := &server{}
		_, errOut, err := run(t, srv, "secret", "action", "cancel", "1")
		require.Error(t, err)
		assert.Contains(t, errOut, "--yes")
		assert.Empty(t, srv.seen())
	})

	t.Run("Should cancel an order and reload it", func(t *testing.T) {
		srv := &server{}
		out, _, err := run(t, srv, "secret", "action", "cancel", "1", "--yes")
		require.NoError(t, err)
		assert.Contains(t, out, `"status": "ok"`)
		assert.Equal(t, []string{
			"GET " + config.DefaultOrdersPath + "/1",
			"PUT " + config.DefaultOrdersPath + "/1/cancel",
			"GET " + config.DefaultOrdersPath + "/1",
		}, srv.seen())
	})

	t.Run("Should refuse actions hidden for the row", func(t *testing.T) {
		srv := &server{}
		_, _, err := run(t, srv, "secret", "action", "ban", "1", "--yes")
		require.Error(t, err)
		assert.NotContains(t, srv.seen(), "PUT "+config.DefaultOrdersPath+"/1/ban")
	})

	t.Run("Should print the detail for view", func(t *testing.T) {
		out, _, err := run(t, &server{}, "secret", "action", "view", "3")
		require.NoError(t, err)
		assert.Contains(t, out, "LC-003")
	})

	t.Run("Should report missing rows", func(t *testing.T) {
		_, errOut, err := run(t, &server{}, "secret", "get", "99")
		require.Error(t, err)
		assert.Contains(t, errOut, "NOT_FOUND")
	})
}

func TestBulkCommand(t *testing.T) {
	t.Run("Should patch the status of every id in one request", func(t *testing.T) {
		srv := &server{}
		out, _, err := run(t, srv, "secret", "bulk", "1", "3", "1", "--value", "shipping", "--yes")
		require.NoError(t, err)
		assert.Contains(t, out, `"value": "SHIPPING"`)
		require.Len(t, srv.bodies, 1)
		assert.Equal(t, []any{"1", "3"}, srv.bodies[0]["ids"])
		assert.Equal(t, map[string]any{"status": "SHIPPING"}, srv.bodies[0]["patch"])
	})

	t.Run("Should validate the value before calling the API", func(t *testing.T) {
		srv := &server{}
		_, errOut, err := run(t, srv, "secret", "bulk", "1", "--value", "lost", "--yes")
		require.Error(t, err)
		assert.Contains(t, errOut, "VALIDATION_ERROR")
		assert.Empty(t, srv.bodies)
	})

	t.Run("Should need a value outside the terminal", func(t *testing.T) {
		_, _, err := run(t, &server{}, "secret", "bulk", "1")
		assert.Error(t, err)
	})
}

func TestExportCommand(t *testing.T) {
	t.Run("Should export the filtered rows as CSV", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "orders.csv")
		_, _, err := run(t, &server{}, "secret", "export", "--filter", "payment=cod", "--file", file)
		require.NoError(t, err)
		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Mã đơn")
		assert.Contains(t, string(data), "LC-001")
		assert.Contains(t, string(data), "LC-003")
		assert.NotContains(t, string(data), "LC-002")
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, errOut, err := run(t, &server{}, "secret", "export", "--type", "xlsx")
		require.Error(t, err)
		assert.Contains(t, errOut, "VALIDATION_ERROR")
	})
}
