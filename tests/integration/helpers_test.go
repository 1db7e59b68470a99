// Package integration provides end-to-end tests for the rollcall kiosk
// pipeline: HTTP API, partition store, range reader, and spreadsheet
// export working against a real temp directory.
package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/rollcall/internal/excel"
	"github.com/mesh-intelligence/rollcall/internal/jsonstore"
	"github.com/mesh-intelligence/rollcall/internal/report"
	"github.com/mesh-intelligence/rollcall/internal/server"
	"github.com/mesh-intelligence/rollcall/pkg/types"
)

// kiosk bundles the full pipeline over one temp directory.
type kiosk struct {
	cfg     types.Config
	store   *jsonstore.Store
	reports *report.Aggregator
	srv     *server.Server
}

// setupKiosk wires store, aggregator, and HTTP server over an isolated
// temp directory. UTC keeps day boundaries independent of the host.
func setupKiosk(t *testing.T) *kiosk {
	t.Helper()
	base := t.TempDir()
	cfg := types.Config{
		DataDir:    filepath.Join(base, "data"),
		ExportDir:  filepath.Join(base, "exports"),
		Timezone:   "UTC",
		DebounceMS: 20,
	}

	store, err := jsonstore.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	reports := report.New(jsonstore.NewReader(cfg.DataDir), excel.NewWriter(), cfg)
	return &kiosk{
		cfg:     cfg,
		store:   store,
		reports: reports,
		srv:     server.New(store, reports, cfg),
	}
}

// request performs an HTTP call against the kiosk API and decodes the
// JSON response body when present.
func (k *kiosk) request(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := k.srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload), "body: %s", raw)
	}
	return resp.StatusCode, payload
}

// register creates a member through the API and fails the test on any
// non-201 response.
func (k *kiosk) register(t *testing.T, body string) map[string]any {
	t.Helper()
	status, payload := k.request(t, http.MethodPost, "/api/members", body)
	require.Equal(t, http.StatusCreated, status, "payload: %v", payload)
	return payload["data"].(map[string]any)
}

// listAll returns options covering the first page at the configured size.
func listAll(cfg types.Config) types.ListOptions {
	return types.ListOptions{Page: 1, PageSize: cfg.ListPageSize()}
}

func memberData(name, phone string) types.MemberData {
	return types.MemberData{Name: name, Phone: phone}
}
