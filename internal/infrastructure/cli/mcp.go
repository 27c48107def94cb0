package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	inframcp "github.com/felixgeelhaar/timeboard/internal/infrastructure/mcp"
)

var (
	mcpTransport string
	mcpAddr      string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Timeboard MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The board loads lazily on the first tool call.
		services, err := loadServices()
		if err != nil {
			return err
		}
		server, err := inframcp.NewServer(services.Board)
		if err != nil {
			return err
		}
		if os.Getenv("TIMEBOARD_SKIP_MCP_START") == "true" {
			return nil
		}

		ctx := cmd.Context()
		switch strings.ToLower(mcpTransport) {
		case "stdio", "":
			return server.ServeStdio(ctx)
		case "http":
			return server.ServeHTTP(ctx, mcpAddr)
		case "ws", "websocket":
			return server.ServeWebSocket(ctx, mcpAddr)
		default:
			return fmt.Errorf("unsupported transport: %s", mcpTransport)
		}
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport to use (stdio, http, ws)")
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", ":8090", "Address for http/ws transports")
	RootCmd.AddCommand(mcpCmd)
}
