package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/wanslu/storefront/internal/app"
)

// Serve starts the MCP stdio server with all tools registered.
func Serve(a *app.App) error {
	s := server.NewMCPServer(
		"wanslu-storefront",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, a)

	return server.ServeStdio(s)
}
