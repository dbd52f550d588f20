package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minq/depmap/internal/indexer"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"main.ts":   `import "./helper";` + "\n",
		"helper.ts": "export function helper() {}\n",
	}
	for rel, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644))
	}
	svc := indexer.New(indexer.DefaultConfig())
	_, err := svc.IndexProject(context.Background(), root)
	require.NoError(t, err)
	return NewServer(svc, 0).Handler()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGraphEndpoint(t *testing.T) {
	h := testHandler(t)
	rec := get(t, h, "/api/graph")
	require.Equal(t, http.StatusOK, rec.Code)

	var data GraphData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Len(t, data.Nodes, 2)
	require.Len(t, data.Edges, 1)
	assert.Equal(t, EdgeData{From: "main.ts", To: "helper.ts"}, data.Edges[0])
}

func TestFileEndpoint(t *testing.T) {
	h := testHandler(t)
	rec := get(t, h, "/api/file/helper.ts")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail FileDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "helper.ts", detail.File.Identity)
	assert.Equal(t, []string{"main.ts"}, detail.Dependents)
	assert.Equal(t, []string{"helper"}, detail.File.Exports)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/file/nope.ts").Code)
}

func TestImpactEndpoint(t *testing.T) {
	h := testHandler(t)
	rec := get(t, h, "/api/impact/helper.ts")
	require.Equal(t, http.StatusOK, rec.Code)

	var data ImpactData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, []string{"main.ts"}, data.Impacted)
	assert.Empty(t, data.Dependencies)
}

func TestSearchEndpoint(t *testing.T) {
	h := testHandler(t)
	rec := get(t, h, "/api/search?q=helper")
	require.Equal(t, http.StatusOK, rec.Code)

	var matches []indexer.Match
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.NotEmpty(t, matches)
	assert.Equal(t, "helper.ts", matches[0].Identity)

	rec = get(t, h, "/api/search")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestOrderAndCyclesEndpoints(t *testing.T) {
	h := testHandler(t)

	rec := get(t, h, "/api/order")
	require.Equal(t, http.StatusOK, rec.Code)
	var order OrderData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.True(t, order.Ordered)
	assert.Equal(t, []string{"helper.ts", "main.ts"}, order.Order)

	rec = get(t, h, "/api/cycles")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestUnindexedServiceConflicts(t *testing.T) {
	h := NewServer(indexer.New(indexer.DefaultConfig()), 0).Handler()
	assert.Equal(t, http.StatusConflict, get(t, h, "/api/graph").Code)
	assert.Equal(t, http.StatusConflict, get(t, h, "/api/stats").Code)
	assert.Equal(t, http.StatusConflict, get(t, h, "/api/search").Code)
}
