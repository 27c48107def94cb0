// Package mcp lets other programs embed the timeboard MCP tool server.
package mcp

import (
	"log/slog"

	infra "github.com/felixgeelhaar/timeboard/internal/infrastructure/mcp"
	"github.com/felixgeelhaar/timeboard/internal/infrastructure/wiring"
)

// Server exposes the MCP server implementation from the infrastructure layer.
type Server = infra.Server

// NewServer wires a board for the workspace at root and wraps it in an MCP
// server. An empty location falls back to the workspace's source.yaml. The
// export is loaded on the first tool call.
func NewServer(root, location string) (*Server, error) {
	services, err := wiring.BuildAppServices(root, location, slog.Default())
	if err != nil {
		return nil, err
	}
	return infra.NewServer(services.Board)
}
