package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minq/depmap/internal/indexer"
)

func testServer(t *testing.T, requests string) []Response {
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

	var out bytes.Buffer
	srv := NewServer(svc)
	srv.input = strings.NewReader(requests)
	srv.output = &out

	require.NoError(t, srv.Run())

	var responses []Response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func callTool(t *testing.T, name string, args map[string]any) Response {
	t.Helper()
	params, err := json.Marshal(ToolCallParams{Name: name, Arguments: args})
	require.NoError(t, err)
	req, err := json.Marshal(Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
	require.NoError(t, err)

	responses := testServer(t, string(req)+"\n")
	require.Len(t, responses, 1)
	return responses[0]
}

func toolText(t *testing.T, resp Response) (string, bool) {
	t.Helper()
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var result ToolCallResult
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Len(t, result.Content, 1)
	return result.Content[0].Text, result.IsError
}

func TestInitializeAndListTools(t *testing.T) {
	responses := testServer(t,
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`+"\n"+
			`{"jsonrpc":"2.0","method":"initialized"}`+"\n"+
			`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`+"\n")

	require.Len(t, responses, 2)
	assert.Nil(t, responses[0].Error)
	assert.Nil(t, responses[1].Error)

	raw, err := json.Marshal(responses[1].Result)
	require.NoError(t, err)
	var listed struct {
		Tools []Tool `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(raw, &listed))

	names := make([]string, len(listed.Tools))
	for i, tool := range listed.Tools {
		names[i] = tool.Name
	}
	assert.Equal(t, []string{"deps", "impact", "search", "cycles", "order"}, names)
}

func TestUnknownMethod(t *testing.T) {
	responses := testServer(t, `{"jsonrpc":"2.0","id":7,"method":"nope"}`+"\n")
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, -32601, responses[0].Error.Code)
}

func TestDepsTool(t *testing.T) {
	text, isError := toolText(t, callTool(t, "deps", map[string]any{"file": "main.ts"}))
	assert.False(t, isError)
	assert.Contains(t, text, "## Dependencies of main.ts")
	assert.Contains(t, text, "- helper.ts")
}

func TestImpactTool(t *testing.T) {
	text, isError := toolText(t, callTool(t, "impact", map[string]any{"file": "helper.ts"}))
	assert.False(t, isError)
	assert.Contains(t, text, "- main.ts")
}

func TestSearchTool(t *testing.T) {
	text, isError := toolText(t, callTool(t, "search", map[string]any{"query": "helper"}))
	assert.False(t, isError)
	assert.Contains(t, text, "| helper.ts |")
}

func TestMissingArgumentIsToolError(t *testing.T) {
	_, isError := toolText(t, callTool(t, "deps", map[string]any{}))
	assert.True(t, isError)
}

func TestOrderTool(t *testing.T) {
	text, isError := toolText(t, callTool(t, "order", nil))
	assert.False(t, isError)
	assert.Contains(t, text, "1. helper.ts")
	assert.Contains(t, text, "2. main.ts")
}
