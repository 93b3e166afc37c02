// Package mcp exposes the signal center over the Model Context Protocol so
// agent clients can list signals and drive trade actions.
package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fundedlabs/signal-center/internal/actions"
	"github.com/fundedlabs/signal-center/internal/common"
	"github.com/fundedlabs/signal-center/internal/config"
	"github.com/fundedlabs/signal-center/internal/engine"
	"github.com/fundedlabs/signal-center/internal/ledger"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates a new MCP handler with the signal-center tool set.
func NewHandler(logger *common.Logger, eng *engine.Engine, l *ledger.Ledger, act *actions.Handlers) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		"signal-center",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	registerTools(mcpSrv, eng, l, act)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
	}
}

// ServeHTTP delegates to the underlying streamable MCP server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
