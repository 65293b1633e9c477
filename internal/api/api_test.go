package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/levelforge/levelforge/pkg/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{
		Addr:  ":0",
		Store: store.NewMemoryStore(),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s.Routes(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGenerateAndGet(t *testing.T) {
	s := testServer(t)
	r := s.Routes()

	seed := uint64(123)
	rec := doJSON(t, r, http.MethodPost, "/api/levels", map[string]any{
		"name":   "test-level",
		"mode":   "classic",
		"width":  40,
		"height": 20,
		"rooms":  5,
		"seed":   seed,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var created store.LevelRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" {
		t.Error("record should have an ID")
	}
	if created.Name != "test-level" || created.Mode != "classic" {
		t.Errorf("metadata mismatch: %+v", created)
	}
	if created.Level == nil || created.Level.Seed != seed {
		t.Errorf("level seed not recorded: %+v", created.Level)
	}
	if created.Level.Width != 40 || created.Level.Height != 20 {
		t.Errorf("dimensions mismatch: %dx%d", created.Level.Width, created.Level.Height)
	}

	got := doJSON(t, r, http.MethodGet, "/api/levels/"+created.ID, nil)
	if got.Code != http.StatusOK {
		t.Fatalf("get status = %d", got.Code)
	}
}

func TestGenerateRejectsInvalidMode(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s.Routes(), http.MethodPost, "/api/levels", map[string]any{
		"mode": "hexagonal",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_MODE") {
		t.Errorf("expected INVALID_MODE code: %s", rec.Body.String())
	}
}

func TestGenerateAcceptsModeAliases(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s.Routes(), http.MethodPost, "/api/levels", map[string]any{
		"mode": "maze",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var created store.LevelRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Mode != "wfc" {
		t.Errorf("alias should normalize to wfc, got %s", created.Mode)
	}
}

func TestGetMissingLevel(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s.Routes(), http.MethodGet, "/api/levels/no-such-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteLevel(t *testing.T) {
	s := testServer(t)
	r := s.Routes()

	created := doJSON(t, r, http.MethodPost, "/api/levels", map[string]any{"mode": "classic"})
	var rec store.LevelRecord
	if err := json.Unmarshal(created.Body.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}

	del := doJSON(t, r, http.MethodDelete, "/api/levels/"+rec.ID, nil)
	if del.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", del.Code)
	}

	got := doJSON(t, r, http.MethodGet, "/api/levels/"+rec.ID, nil)
	if got.Code != http.StatusNotFound {
		t.Errorf("deleted level should 404, got %d", got.Code)
	}
}

func TestListLevels(t *testing.T) {
	s := testServer(t)
	r := s.Routes()

	empty := doJSON(t, r, http.MethodGet, "/api/levels", nil)
	if empty.Code != http.StatusOK {
		t.Fatalf("list status = %d", empty.Code)
	}
	if strings.TrimSpace(empty.Body.String()) != "[]" {
		t.Errorf("empty store should list [], got %s", empty.Body.String())
	}

	doJSON(t, r, http.MethodPost, "/api/levels", map[string]any{"mode": "classic"})
	doJSON(t, r, http.MethodPost, "/api/levels", map[string]any{"mode": "marble"})

	var recs []*store.LevelRecord
	list := doJSON(t, r, http.MethodGet, "/api/levels?limit=1", nil)
	if err := json.Unmarshal(list.Body.Bytes(), &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Errorf("limit=1 should return 1 record, got %d", len(recs))
	}

	bad := doJSON(t, r, http.MethodGet, "/api/levels?limit=-2", nil)
	if bad.Code != http.StatusBadRequest {
		t.Errorf("negative limit should 400, got %d", bad.Code)
	}
}

func TestASCIIRendering(t *testing.T) {
	s := testServer(t)
	r := s.Routes()

	created := doJSON(t, r, http.MethodPost, "/api/levels", map[string]any{
		"mode": "classic", "width": 30, "height": 15, "rooms": 3, "seed": 7,
	})
	var rec store.LevelRecord
	if err := json.Unmarshal(created.Body.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}

	out := doJSON(t, r, http.MethodGet, "/api/levels/"+rec.ID+"/ascii", nil)
	if out.Code != http.StatusOK {
		t.Fatalf("ascii status = %d", out.Code)
	}
	if ct := out.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %s", ct)
	}
	if !strings.Contains(out.Body.String(), "#") {
		t.Error("ascii output should contain walls")
	}
}

func TestIsoRendering(t *testing.T) {
	s := testServer(t)
	r := s.Routes()

	created := doJSON(t, r, http.MethodPost, "/api/levels", map[string]any{
		"mode": "marble", "width": 30, "height": 15, "rooms": 3, "seed": 7,
	})
	var rec store.LevelRecord
	if err := json.Unmarshal(created.Body.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}

	out := doJSON(t, r, http.MethodGet, "/api/levels/"+rec.ID+"/iso.html", nil)
	if out.Code != http.StatusOK {
		t.Fatalf("iso status = %d", out.Code)
	}
	if !strings.Contains(out.Body.String(), "<svg") {
		t.Error("marble iso view should contain an SVG")
	}
}
