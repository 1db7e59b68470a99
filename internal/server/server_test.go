package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mesh-intelligence/rollcall/internal/jsonstore"
	"github.com/mesh-intelligence/rollcall/pkg/types"
)

type countingScheduler struct {
	calls atomic.Int32
}

func (c *countingScheduler) ScheduleExport() { c.calls.Add(1) }

func newTestServer(t *testing.T) (*Server, *countingScheduler) {
	t.Helper()
	cfg := types.Config{DataDir: t.TempDir(), Timezone: "UTC"}
	store, err := jsonstore.Open(cfg)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	sched := &countingScheduler{}
	return New(store, sched, cfg), sched
}

func doJSON(t *testing.T, s *Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}

	var payload map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("%s %s: invalid JSON response %q: %v", method, path, raw, err)
		}
	}
	return resp, payload
}

func TestCreateMember(t *testing.T) {
	s, sched := newTestServer(t)

	resp, payload := doJSON(t, s, http.MethodPost, "/api/members",
		`{"name":"Kim","phone":"01012345678","gradeClass":"3-2","lunch":"1"}`)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	data := payload["data"].(map[string]any)
	if data["id"].(float64) != 1 {
		t.Errorf("id = %v, want 1", data["id"])
	}
	if data["gradeClass"] != "3-2" {
		t.Errorf("gradeClass = %v", data["gradeClass"])
	}
	if v, ok := data["lunch"].(bool); !ok || !v {
		t.Errorf("lunch = %v, want coerced boolean true", data["lunch"])
	}
	if sched.calls.Load() != 1 {
		t.Errorf("export scheduled %d times, want 1", sched.calls.Load())
	}
}

func TestCreateMemberValidation(t *testing.T) {
	s, sched := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"phone":"01012345678"}`},
		{"missing phone", `{"name":"Kim"}`},
		{"short phone", `{"name":"Kim","phone":"0101234"}`},
		{"wrong prefix", `{"name":"Kim","phone":"01112345678"}`},
		{"non-numeric phone", `{"name":"Kim","phone":"010abcd5678"}`},
		{"broken JSON", `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, payload := doJSON(t, s, http.MethodPost, "/api/members", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if payload["success"] != false {
				t.Errorf("success = %v, want false", payload["success"])
			}
		})
	}
	if sched.calls.Load() != 0 {
		t.Errorf("export scheduled on rejected create")
	}
}

func TestListMembers(t *testing.T) {
	s, _ := newTestServer(t)
	for i := 0; i < 6; i++ {
		lunch := `"1"`
		if i%2 == 1 {
			lunch = `false`
		}
		doJSON(t, s, http.MethodPost, "/api/members",
			`{"name":"Kim","phone":"01012345678","lunch":`+lunch+`}`)
	}

	resp, payload := doJSON(t, s, http.MethodGet, "/api/members?page=1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	data := payload["data"].(map[string]any)
	if data["total"].(float64) != 6 || data["totalPages"].(float64) != 2 {
		t.Errorf("total=%v totalPages=%v, want 6/2", data["total"], data["totalPages"])
	}
	if len(data["items"].([]any)) != 5 {
		t.Errorf("items = %d, want page size 5", len(data["items"].([]any)))
	}
	if data["currentDate"] == "" {
		t.Error("currentDate missing")
	}

	_, payload = doJSON(t, s, http.MethodGet, "/api/members?page=1&lunchOnly=true", "")
	data = payload["data"].(map[string]any)
	if data["total"].(float64) != 3 {
		t.Errorf("lunchOnly total = %v, want 3", data["total"])
	}
}

func TestCheckRegistration(t *testing.T) {
	s, _ := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/api/members",
		`{"name":"Kim","phone":"01012345678","userNo":"42"}`)

	// Unused values are available.
	resp, payload := doJSON(t, s, http.MethodGet, "/api/members/99", "")
	if resp.StatusCode != http.StatusOK || payload["success"] != true {
		t.Errorf("unused key: status=%d success=%v, want 200/true", resp.StatusCode, payload["success"])
	}

	// A registered member number conflicts.
	resp, payload = doJSON(t, s, http.MethodGet, "/api/members/42", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("registered userNo: status = %d, want 404", resp.StatusCode)
	}
	if payload["member"] == nil {
		t.Error("conflict response missing member")
	}

	// A registered phone conflicts too.
	resp, _ = doJSON(t, s, http.MethodGet, "/api/members/01012345678", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("registered phone: status = %d, want 404", resp.StatusCode)
	}
}

func TestUpdateMember(t *testing.T) {
	s, _ := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/api/members", `{"name":"Kim","phone":"01012345678"}`)

	resp, payload := doJSON(t, s, http.MethodPut, "/api/members/1", `{"name":"Kim Min","lunch":1}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	data := payload["data"].(map[string]any)
	if data["name"] != "Kim Min" {
		t.Errorf("name = %v", data["name"])
	}
	if v, ok := data["lunch"].(bool); !ok || !v {
		t.Errorf("lunch = %v, want true", data["lunch"])
	}
	if data["phone"] != "01012345678" {
		t.Errorf("unpatched phone changed: %v", data["phone"])
	}

	resp, _ = doJSON(t, s, http.MethodPut, "/api/members/1", `{"phone":"123"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad phone patch: status = %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, s, http.MethodPut, "/api/members/99", `{"name":"X"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing id: status = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, s, http.MethodPut, "/api/members/abc", `{"name":"X"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed id: status = %d, want 400", resp.StatusCode)
	}
}

func TestDeleteMember(t *testing.T) {
	s, _ := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/api/members", `{"name":"Kim","phone":"01012345678"}`)

	resp, _ := doJSON(t, s, http.MethodDelete, "/api/members/1", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	resp, _ = doJSON(t, s, http.MethodDelete, "/api/members/1", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	resp, payload := doJSON(t, s, http.MethodGet, "/api/health", "")
	if resp.StatusCode != http.StatusOK || payload["status"] != "OK" {
		t.Errorf("health: status=%d payload=%v", resp.StatusCode, payload)
	}
}
