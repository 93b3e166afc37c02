package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fundedlabs/signal-center/internal/actions"
	"github.com/fundedlabs/signal-center/internal/engine"
	"github.com/fundedlabs/signal-center/internal/ledger"
)

// registerTools adds the signal-center tool set to the MCP server.
func registerTools(srv *mcpserver.MCPServer, eng *engine.Engine, l *ledger.Ledger, act *actions.Handlers) {
	srv.AddTool(
		mcp.NewTool("list_signals",
			mcp.WithDescription("List the current trading signals with their taken state, newest first."),
		),
		listSignalsHandler(eng),
	)

	srv.AddTool(
		mcp.NewTool("list_taken_trades",
			mcp.WithDescription("List the ledger of trades the user has marked as taken."),
		),
		listTakenTradesHandler(l),
	)

	srv.AddTool(
		mcp.NewTool("mark_taken",
			mcp.WithDescription("Mark a signal as taken. Records the trade in the ledger and journals it."),
			mcp.WithString("signal_id",
				mcp.Required(),
				mcp.Description("ID of the signal to mark as taken"),
			),
		),
		markTakenHandler(act),
	)

	srv.AddTool(
		mcp.NewTool("cancel_trade",
			mcp.WithDescription("Cancel a taken trade so the signal shows as available again."),
			mcp.WithString("signal_id",
				mcp.Required(),
				mcp.Description("ID of the taken signal to cancel"),
			),
		),
		cancelTradeHandler(act),
	)

	srv.AddTool(
		mcp.NewTool("copy_trade",
			mcp.WithDescription("Return a signal's details as plain text ready to paste into a trading platform."),
			mcp.WithString("signal_id",
				mcp.Required(),
				mcp.Description("ID of the signal to copy"),
			),
		),
		copyTradeHandler(act),
	)
}

func listSignalsHandler(eng *engine.Engine) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(eng.Signals())
		if err != nil {
			return errorResult("failed to marshal signals"), nil
		}
		return textResult(string(out)), nil
	}
}

func listTakenTradesHandler(l *ledger.Ledger) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries, err := l.ListAll(ctx)
		if err != nil {
			return errorResult("failed to read trade ledger: " + err.Error()), nil
		}
		out, err := json.Marshal(entries)
		if err != nil {
			return errorResult("failed to marshal ledger entries"), nil
		}
		return textResult(string(out)), nil
	}
}

func markTakenHandler(act *actions.Handlers) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := r.GetString("signal_id", "")
		if id == "" {
			return errorResult("signal_id is required"), nil
		}
		if err := act.MarkAsTaken(ctx, id); err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult("signal " + id + " marked as taken"), nil
	}
}

func cancelTradeHandler(act *actions.Handlers) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := r.GetString("signal_id", "")
		if id == "" {
			return errorResult("signal_id is required"), nil
		}
		if err := act.CancelTrade(ctx, id); err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult("trade for signal " + id + " cancelled"), nil
	}
}

func copyTradeHandler(act *actions.Handlers) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := r.GetString("signal_id", "")
		if id == "" {
			return errorResult("signal_id is required"), nil
		}
		text, err := act.CopyTrade(id)
		if text == "" && err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult(text), nil
	}
}

// textResult builds a successful text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

// errorResult builds an error tool result with the given message.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(message)},
		IsError: true,
	}
}
