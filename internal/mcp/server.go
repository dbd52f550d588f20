// Package mcp exposes dependency queries as MCP tools over a JSON-RPC
// 2.0 stdio transport, so coding assistants can ask about the indexed
// project directly.
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minq/depmap/internal/indexer"
)

// Server implements the MCP protocol over svc.
type Server struct {
	svc    *indexer.Service
	input  io.Reader
	output io.Writer
}

// NewServer creates an MCP server reading stdin and writing stdout.
func NewServer(svc *indexer.Service) *Server {
	return &Server{
		svc:    svc,
		input:  os.Stdin,
		output: os.Stdout,
	}
}

// JSON-RPC types
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MCP specific types
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
	Capabilities    Capabilities `json:"capabilities"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Capabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
}

type ToolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type ToolCallResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Run reads requests line by line until the input closes.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.input)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var req Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			s.sendError(nil, -32700, "Parse error")
			continue
		}
		s.handleRequest(&req)
	}
	return scanner.Err()
}

func (s *Server) handleRequest(req *Request) {
	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "initialized":
		// Notification, no response needed
	case "tools/list":
		s.handleToolsList(req)
	case "tools/call":
		s.handleToolsCall(req)
	default:
		s.sendError(req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req *Request) {
	s.sendResult(req.ID, InitializeResult{
		ProtocolVersion: "2024-11-05",
		ServerInfo: ServerInfo{
			Name:    "depmap",
			Version: "1.0.0",
		},
		Capabilities: Capabilities{
			Tools: &ToolsCapability{},
		},
	})
}

func (s *Server) handleToolsList(req *Request) {
	fileProp := Property{
		Type:        "string",
		Description: "Project-relative file path, e.g. src/app/main.ts",
	}
	limitProp := Property{
		Type:        "number",
		Description: "Maximum number of entries to return, default 50",
		Default:     50,
	}

	tools := []Tool{
		{
			Name:        "deps",
			Description: "List the files a given file imports, directly and transitively",
			InputSchema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"file": fileProp, "limit": limitProp},
				Required:   []string{"file"},
			},
		},
		{
			Name:        "impact",
			Description: "List the files that would be affected if a given file changed",
			InputSchema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{"file": fileProp, "limit": limitProp},
				Required:   []string{"file"},
			},
		},
		{
			Name:        "search",
			Description: "Find files by name, path fragment, or exported symbol",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"query": {Type: "string", Description: "Name, path fragment, or symbol to look for"},
					"limit": limitProp,
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "cycles",
			Description: "List circular dependencies in the project",
			InputSchema: InputSchema{Type: "object"},
		},
		{
			Name:        "order",
			Description: "Return a dependencies-first ordering of all project files",
			InputSchema: InputSchema{Type: "object"},
		},
	}
	s.sendResult(req.ID, map[string]any{"tools": tools})
}

func (s *Server) handleToolsCall(req *Request) {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.sendError(req.ID, -32602, "Invalid params")
		return
	}

	var result string
	var isError bool

	switch params.Name {
	case "deps":
		result, isError = s.toolDeps(params.Arguments)
	case "impact":
		result, isError = s.toolImpact(params.Arguments)
	case "search":
		result, isError = s.toolSearch(params.Arguments)
	case "cycles":
		result, isError = s.toolCycles()
	case "order":
		result, isError = s.toolOrder()
	default:
		result = fmt.Sprintf("Unknown tool: %s", params.Name)
		isError = true
	}

	s.sendResult(req.ID, ToolCallResult{
		Content: []ContentItem{{Type: "text", Text: result}},
		IsError: isError,
	})
}

func argFile(args map[string]any) (string, bool) {
	f, ok := args["file"].(string)
	return f, ok && f != ""
}

func argLimit(args map[string]any) int {
	if l, ok := args["limit"].(float64); ok && l > 0 {
		return int(l)
	}
	return 50
}

func (s *Server) toolDeps(args map[string]any) (string, bool) {
	file, ok := argFile(args)
	if !ok {
		return "Error: a file path is required", true
	}
	limit := argLimit(args)

	direct, err := s.svc.Dependencies(file)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	all, err := s.svc.AllDependencies(file)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Dependencies of %s\n\n", file)
	writeList(&sb, "Direct", direct, limit)
	writeList(&sb, "Transitive", all, limit)
	return sb.String(), false
}

func (s *Server) toolImpact(args map[string]any) (string, bool) {
	file, ok := argFile(args)
	if !ok {
		return "Error: a file path is required", true
	}
	limit := argLimit(args)

	direct, err := s.svc.Dependents(file)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	impacted, err := s.svc.ImpactedFiles(file)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Impact of changing %s\n\n", file)
	writeList(&sb, "Direct importers", direct, limit)
	writeList(&sb, "All impacted files", impacted, limit)
	return sb.String(), false
}

func (s *Server) toolSearch(args map[string]any) (string, bool) {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return "Error: a search query is required", true
	}

	matches, err := s.svc.Search(query, indexer.SearchOptions{Limit: argLimit(args)})
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	if len(matches) == 0 {
		return fmt.Sprintf("No files match %q. If the project changed recently, re-run the index.", query), false
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Search results for %q\n\n", query)
	sb.WriteString("| File | Language | Symbol |\n|------|----------|--------|\n")
	for _, m := range matches {
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", m.Identity, m.Language, m.Symbol)
	}
	return sb.String(), false
}

func (s *Server) toolCycles() (string, bool) {
	cycles, err := s.svc.DetectCycles()
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	if len(cycles) == 0 {
		return "No circular dependencies detected.", false
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Circular dependencies (%d)\n\n", len(cycles))
	for _, cycle := range cycles {
		fmt.Fprintf(&sb, "- %s -> %s\n", strings.Join(cycle, " -> "), cycle[0])
	}
	return sb.String(), false
}

func (s *Server) toolOrder() (string, bool) {
	order, ok, err := s.svc.TopologicalSort()
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	if !ok {
		return "No valid ordering: the project contains circular dependencies. Run the cycles tool to list them.", true
	}

	var sb strings.Builder
	sb.WriteString("## Dependencies-first file order\n\n")
	for i, id := range order {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, id)
	}
	return sb.String(), false
}

// writeList renders one titled section of file paths, truncated to limit.
func writeList(sb *strings.Builder, title string, items []string, limit int) {
	fmt.Fprintf(sb, "### %s\n\n", title)
	if len(items) == 0 {
		sb.WriteString("_none_\n\n")
		return
	}
	total := len(items)
	if total > limit {
		items = items[:limit]
	}
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	if total > limit {
		fmt.Fprintf(sb, "\n_(%d total, showing first %d)_\n", total, limit)
	}
	sb.WriteString("\n")
}

func (s *Server) sendResult(id, result any) {
	s.send(Response{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id any, code int, message string) {
	s.send(Response{JSONRPC: "2.0", ID: id, Error: &Error{Code: code, Message: message}})
}

func (s *Server) send(resp Response) {
	data, _ := json.Marshal(resp)
	fmt.Fprintln(s.output, string(data))
}
