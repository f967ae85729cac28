package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/electro-agent/internal/adapters/driving/mcp"
	"github.com/custodia-labs/electro-agent/internal/core/services"
	"github.com/custodia-labs/electro-agent/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
the course material.

Tools:
  retrieve   Excerpts closest to a query, optionally within one topic
  ask        Grounded answer from the configured LLM (only when one is configured)
  stats      Chunk counts per topic

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, or --http to pick the first
free port between 8765 and 8799.

Examples:
  # Stdio mode (default, for Claude Desktop)
  electro mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  electro mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "electro": {
        "command": "/path/to/electro",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Annotations: needs(NeedAssistantOptional),
	RunE:        runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("http", false, "serve HTTP on the first free port in the default range")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	useHTTP, err := cmd.Flags().GetBool("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}

	ports := &mcp.Ports{
		Retrieval: retrievalService,
		Assistant: assistantService,
		Stats:     statsService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port == 0 && useHTTP {
		port, err = services.FindAvailablePort(services.MCPPortRangeStart, services.MCPPortRangeEnd)
		if err != nil {
			return err
		}
	}

	if assistantService == nil || !assistantService.Available() {
		logger.Warn("no LLM configured: the ask tool is disabled")
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}
