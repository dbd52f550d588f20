// Package web serves the project index as a JSON HTTP API.
package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/minq/depmap/internal/indexer"
	"github.com/minq/depmap/internal/record"
)

// Server exposes dependency queries over HTTP.
type Server struct {
	svc  *indexer.Service
	port int
}

// NewServer creates a server over svc.
func NewServer(svc *indexer.Service, port int) *Server {
	return &Server{svc: svc, port: port}
}

// GraphData is the full graph in node/edge form.
type GraphData struct {
	Nodes []FileData `json:"nodes"`
	Edges []EdgeData `json:"edges"`
}

// FileData describes one indexed file.
type FileData struct {
	Identity string   `json:"identity"`
	Name     string   `json:"name"`
	Language string   `json:"language"`
	Size     int64    `json:"size"`
	Exports  []string `json:"exports,omitempty"`
}

// EdgeData is one dependency edge.
type EdgeData struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FileDetail is one file with its direct neighborhood.
type FileDetail struct {
	File       FileData `json:"file"`
	Imports    []string `json:"imports"`
	Dependents []string `json:"dependents"`
}

// ImpactData is the transitive neighborhood of a file.
type ImpactData struct {
	Identity     string   `json:"identity"`
	Dependencies []string `json:"dependencies"`
	Impacted     []string `json:"impacted"`
}

// OrderData is the topological ordering result.
type OrderData struct {
	Ordered bool     `json:"ordered"`
	Order   []string `json:"order,omitempty"`
}

// Handler returns the API routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/graph", s.handleGraph)
	mux.HandleFunc("/api/files", s.handleFiles)
	mux.HandleFunc("/api/file/", s.handleFile)
	mux.HandleFunc("/api/impact/", s.handleImpact)
	mux.HandleFunc("/api/cycles", s.handleCycles)
	mux.HandleFunc("/api/order", s.handleOrder)
	mux.HandleFunc("/api/search", s.handleSearch)
	mux.HandleFunc("/api/stats", s.handleStats)
	return mux
}

// Run starts the server and blocks.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("dependency API listening on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	recs, err := s.svc.Records()
	if err != nil {
		serviceError(w, err)
		return
	}

	data := GraphData{
		Nodes: make([]FileData, 0, len(recs)),
		Edges: make([]EdgeData, 0),
	}
	for _, rec := range recs {
		data.Nodes = append(data.Nodes, fileToData(rec))
		deps, err := s.svc.Dependencies(rec.Identity)
		if err != nil {
			serviceError(w, err)
			return
		}
		for _, dep := range deps {
			data.Edges = append(data.Edges, EdgeData{From: rec.Identity, To: dep})
		}
	}
	writeJSON(w, data)
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	recs, err := s.svc.Records()
	if err != nil {
		serviceError(w, err)
		return
	}
	files := make([]FileData, 0, len(recs))
	for _, rec := range recs {
		files = append(files, fileToData(rec))
	}
	writeJSON(w, files)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	identity := strings.TrimPrefix(r.URL.Path, "/api/file/")
	if identity == "" {
		http.Error(w, "missing file identity", http.StatusBadRequest)
		return
	}

	rec, err := s.svc.Record(identity)
	if err != nil {
		if err == indexer.ErrNoIndex {
			serviceError(w, err)
			return
		}
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	imports, _ := s.svc.Dependencies(identity)
	dependents, _ := s.svc.Dependents(identity)
	writeJSON(w, FileDetail{
		File:       fileToData(rec),
		Imports:    imports,
		Dependents: dependents,
	})
}

func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	identity := strings.TrimPrefix(r.URL.Path, "/api/impact/")
	if identity == "" {
		http.Error(w, "missing file identity", http.StatusBadRequest)
		return
	}
	if _, err := s.svc.Record(identity); err != nil {
		if err == indexer.ErrNoIndex {
			serviceError(w, err)
			return
		}
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	deps, _ := s.svc.AllDependencies(identity)
	impacted, _ := s.svc.ImpactedFiles(identity)
	writeJSON(w, ImpactData{
		Identity:     identity,
		Dependencies: deps,
		Impacted:     impacted,
	})
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := s.svc.DetectCycles()
	if err != nil {
		serviceError(w, err)
		return
	}
	if cycles == nil {
		cycles = [][]string{}
	}
	writeJSON(w, cycles)
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	order, ok, err := s.svc.TopologicalSort()
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, OrderData{Ordered: ok, Order: order})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	matches, err := s.svc.Search(query, indexer.SearchOptions{Limit: limit})
	if err != nil {
		serviceError(w, err)
		return
	}
	if matches == nil {
		matches = []indexer.Match{}
	}
	writeJSON(w, matches)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats()
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, stats)
}

func fileToData(rec *record.Record) FileData {
	return FileData{
		Identity: rec.Identity,
		Name:     rec.Name,
		Language: rec.Language,
		Size:     rec.Size,
		Exports:  rec.Exports,
	}
}

// serviceError maps a missing index to 409 so clients can tell "index
// first" apart from a genuine server failure.
func serviceError(w http.ResponseWriter, err error) {
	if err == indexer.ErrNoIndex {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(data)
}
