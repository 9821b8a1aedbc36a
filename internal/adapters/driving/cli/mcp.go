package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stixnav/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes two tools, search and related_techniques, and the
stixnav://domains resource listing the bundle library.

By default, the server communicates over stdio using JSON-RPC. Use --port
to start an HTTP server instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  stixnav mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  stixnav mcp serve --port 8080 --domain enterprise-attack-15

Assistant configuration:
  {
    "mcpServers": {
      "stixnav": {
        "command": "/path/to/stixnav",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringP("domain", "d", "", "default domain version for tool calls")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	flagDomain, err := cmd.Flags().GetString("domain")
	if err != nil {
		return fmt.Errorf("getting domain flag: %w", err)
	}

	// Tool calls may still name a domain when none resolves here.
	defaultDomain, err := resolveDomain(cmd.Context(), flagDomain)
	if err != nil && !errors.Is(err, errNoDomain) {
		return err
	}

	ports := &mcp.Ports{
		Search:        searchService,
		Library:       libraryService,
		DefaultDomain: defaultDomain,
	}
	if relationResolver != nil {
		ports.Relations = relationResolver
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
