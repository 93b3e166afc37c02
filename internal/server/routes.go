package server

import (
	"net/http"

	"github.com/fundedlabs/signal-center/internal/metrics"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// Signal feed and trade actions
	mux.HandleFunc("GET /api/signals", s.app.SignalsHandler.List)
	mux.HandleFunc("POST /api/signals", s.app.SignalsHandler.Inject)
	mux.HandleFunc("GET /api/signals/stats", s.app.SignalsHandler.Stats)
	mux.HandleFunc("POST /api/signals/{id}/taken", s.app.SignalsHandler.MarkTaken)
	mux.HandleFunc("DELETE /api/signals/{id}/taken", s.app.SignalsHandler.CancelTrade)
	mux.HandleFunc("POST /api/signals/{id}/copy", s.app.SignalsHandler.CopyTrade)

	mux.HandleFunc("/api/ledger", s.app.LedgerHandler.ServeHTTP)

	mux.Handle("/metrics", metrics.Handler())

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
