package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can call the
"ask" and "retrieve" tools and read chunks as verdict://chunks/{chunk_id}.

By default the server communicates over stdio. Use --port to serve the
streamable HTTP transport instead.

Examples:
  verdict mcp serve
  verdict mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "verdict": {
        "command": "/path/to/verdict",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	s, err := serving()
	if err != nil {
		return describe(err)
	}

	ports := &mcp.Ports{
		Answer:    s.Answer,
		Retrieval: s.Retrieval,
	}

	server, err := mcp.NewServer(ports, topKOrDefault(0, s))
	if err != nil {
		return err
	}

	watchPrompts(cmd.Context(), s)

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
