// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/AleutianAI/PeopleRegistry/services/registry/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// =============================================================================
// Test Helpers
// =============================================================================

type testServer struct {
	router  *gin.Engine
	store   Store
	metrics *observability.RegistryMetrics
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := NewMemoryStore(DefaultSeed())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return setupTestServerWithStore(t, store)
}

func setupTestServerWithStore(t *testing.T, store Store) *testServer {
	t.Helper()
	metrics := observability.NewRegistryMetrics(prometheus.NewRegistry())
	router := gin.New()
	RegisterRoutes(router, NewHandlers(store).WithMetrics(metrics))
	return &testServer{router: router, store: store, metrics: metrics}
}

func (s *testServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) entries(t *testing.T) []Entry {
	t.Helper()
	entries, err := s.store.List()
	require.NoError(t, err)
	return entries
}

func (s *testServer) ops(operation, outcome string) float64 {
	return testutil.ToFloat64(s.metrics.OperationsTotal.WithLabelValues(operation, outcome))
}

func assertRedirectToIndex(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func personValues(nome, sexo, idade, condicao, observacao string) url.Values {
	return url.Values{
		"nome":       {nome},
		"sexo":       {sexo},
		"idade":      {idade},
		"condicao":   {condicao},
		"observacao": {observacao},
	}
}

// failingStore fails every call with err.
type failingStore struct{ err error }

func (f failingStore) List() ([]Entry, error)   { return nil, f.err }
func (f failingStore) Get(int) (Person, error)  { return Person{}, f.err }
func (f failingStore) Add(Person) (int, error)  { return 0, f.err }
func (f failingStore) Update(int, Person) error { return f.err }
func (f failingStore) Delete(int) error         { return f.err }
func (f failingStore) Len() (int, error)        { return 0, f.err }
func (f failingStore) Close() error             { return nil }

// =============================================================================
// GET /
// =============================================================================

func TestHandleIndex_RendersSeed(t *testing.T) {
	s := setupTestServer(t)

	w := s.get("/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "Gestão de Pessoas")
	assert.Contains(t, body, "Lista de Pessoas Cadastradas (3)")
	assert.Contains(t, body, `"nome":"Maria Silva"`)
	assert.Contains(t, body, `"nome":"João Santos"`)
	assert.Contains(t, body, `"id":3`)
	assert.Equal(t, float64(1), s.ops(observability.OpList, observability.OutcomeOK))
}

func TestHandleIndex_EmptyStore(t *testing.T) {
	store, err := NewMemoryStore(nil)
	require.NoError(t, err)
	s := setupTestServerWithStore(t, store)

	w := s.get("/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lista de Pessoas Cadastradas (0)")
	assert.NotContains(t, w.Body.String(), `"nome":`)
}

func TestHandleIndex_EscapesScriptContent(t *testing.T) {
	s := setupTestServer(t)
	s.post("/add", personValues("</script><script>alert(1)</script>", "", "30", "", ""))

	w := s.get("/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "</script><script>alert(1)")
	assert.Contains(t, body, "alert(1)")
}

func TestHandleIndex_StoreFailure(t *testing.T) {
	s := setupTestServerWithStore(t, failingStore{err: ErrStoreClosed})

	w := s.get("/")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LIST_FAILED", resp.Code)
	assert.Equal(t, float64(1), s.ops(observability.OpList, observability.OutcomeError))
}

// =============================================================================
// POST /add
// =============================================================================

func TestHandleAdd_Valid(t *testing.T) {
	s := setupTestServer(t)

	w := s.post("/add", personValues("Carlos", "Masculino", "40", "Aposentado", "Mora sozinho."))

	assertRedirectToIndex(t, w)
	entries := s.entries(t)
	require.Len(t, entries, 4)
	assert.Equal(t, Entry{ID: 4, Person: Person{
		Name: "Carlos", Sex: "Masculino", Age: 40, Condition: "Aposentado", Note: "Mora sozinho.",
	}}, entries[3])
	assert.Equal(t, float64(1), s.ops(observability.OpAdd, observability.OutcomeOK))
	assert.Equal(t, float64(4), testutil.ToFloat64(s.metrics.Records))

	page := s.get("/").Body.String()
	assert.Contains(t, page, `"id":4`)
	assert.Contains(t, page, `"nome":"Carlos"`)
}

func TestHandleAdd_RejectedSilently(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"empty name", personValues("", "F", "30", "", "")},
		{"zero age", personValues("Carlos", "", "0", "", "")},
		{"negative age", personValues("Carlos", "", "-2", "", "")},
		{"non-numeric age", personValues("Carlos", "", "abc", "", "")},
		{"missing age", url.Values{"nome": {"Carlos"}}},
		{"empty body", url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestServer(t)

			w := s.post("/add", tt.form)

			assertRedirectToIndex(t, w)
			assert.Len(t, s.entries(t), 3)
			assert.Equal(t, float64(1), s.ops(observability.OpAdd, observability.OutcomeInvalid))
		})
	}
}

func TestHandleAdd_StoreFailureStillRedirects(t *testing.T) {
	s := setupTestServerWithStore(t, failingStore{err: errors.New("disk on fire")})

	w := s.post("/add", personValues("Carlos", "", "40", "", ""))

	assertRedirectToIndex(t, w)
	assert.Equal(t, float64(1), s.ops(observability.OpAdd, observability.OutcomeError))
}

// =============================================================================
// POST /update
// =============================================================================

func TestHandleUpdate_OverwritesAllFields(t *testing.T) {
	s := setupTestServer(t)
	form := personValues("Maria S.", "", "36", "Empregada", "")
	form.Set("id", "1")

	w := s.post("/update", form)

	assertRedirectToIndex(t, w)
	got, err := s.store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, Person{Name: "Maria S.", Age: 36, Condition: "Empregada"}, got)
	assert.Len(t, s.entries(t), 3)
	assert.Equal(t, float64(1), s.ops(observability.OpUpdate, observability.OutcomeOK))
}

func TestHandleUpdate_NotRevalidated(t *testing.T) {
	s := setupTestServer(t)
	form := personValues("", "", "abc", "", "")
	form.Set("id", "2")

	w := s.post("/update", form)

	assertRedirectToIndex(t, w)
	got, err := s.store.Get(2)
	require.NoError(t, err)
	assert.Equal(t, Person{}, got)
}

func TestHandleUpdate_IgnoredIDs(t *testing.T) {
	for _, id := range []string{"", "abc", "99", "0"} {
		t.Run("id="+id, func(t *testing.T) {
			s := setupTestServer(t)
			before := s.entries(t)
			form := personValues("Ghost", "", "10", "", "")
			form.Set("id", id)

			w := s.post("/update", form)

			assertRedirectToIndex(t, w)
			assert.Equal(t, before, s.entries(t))
			assert.Equal(t, float64(1), s.ops(observability.OpUpdate, observability.OutcomeNotFound))
		})
	}
}

// =============================================================================
// POST /delete
// =============================================================================

func TestHandleDelete_Known(t *testing.T) {
	s := setupTestServer(t)

	w := s.post("/delete", url.Values{"id": {"2"}})

	assertRedirectToIndex(t, w)
	entries := s.entries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].ID)
	assert.Equal(t, 3, entries[1].ID)
	assert.Equal(t, float64(2), testutil.ToFloat64(s.metrics.Records))
}

func TestHandleDelete_IgnoredIDs(t *testing.T) {
	for _, id := range []string{"", "abc", "99"} {
		t.Run("id="+id, func(t *testing.T) {
			s := setupTestServer(t)

			w := s.post("/delete", url.Values{"id": {id}})

			assertRedirectToIndex(t, w)
			assert.Len(t, s.entries(t), 3)
			assert.Equal(t, float64(1), s.ops(observability.OpDelete, observability.OutcomeNotFound))
		})
	}
}

// =============================================================================
// Scenarios
// =============================================================================

func TestScenario_IDsAreNeverReused(t *testing.T) {
	s := setupTestServer(t)

	assertRedirectToIndex(t, s.post("/add", personValues("Carlos", "", "40", "", "")))
	assertRedirectToIndex(t, s.post("/delete", url.Values{"id": {"2"}}))
	assertRedirectToIndex(t, s.post("/add", personValues("Paula", "", "31", "", "")))

	entries := s.entries(t)
	got := make([]int, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.ID)
	}
	assert.Equal(t, []int{1, 3, 4, 5}, got)
	assert.Equal(t, "Paula", entries[3].Name)
}

func TestScenario_BadgerBackend(t *testing.T) {
	store, err := NewStore(BackendBadger, DefaultSeed(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	s := setupTestServerWithStore(t, store)

	assertRedirectToIndex(t, s.post("/add", personValues("Carlos", "", "40", "", "")))
	form := personValues("Carlos Lima", "", "41", "", "")
	form.Set("id", "4")
	assertRedirectToIndex(t, s.post("/update", form))
	assertRedirectToIndex(t, s.post("/delete", url.Values{"id": {"1"}}))

	page := s.get("/").Body.String()
	assert.Contains(t, page, "Lista de Pessoas Cadastradas (3)")
	assert.Contains(t, page, `"nome":"Carlos Lima"`)
	assert.NotContains(t, page, `"nome":"Maria Silva"`)
}

// =============================================================================
// GET /health
// =============================================================================

func TestHandleHealth(t *testing.T) {
	s := setupTestServer(t)

	w := s.get("/health")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, HealthResponse{Status: "healthy", Records: 3}, resp)
}

func TestHandleHealth_StoreUnavailable(t *testing.T) {
	s := setupTestServerWithStore(t, failingStore{err: ErrStoreClosed})

	w := s.get("/health")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "STORE_UNAVAILABLE", resp.Code)
}
