package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict/internal/adapters/driving/api"
	"github.com/custodia-labs/verdict/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the question answering API:

  GET  /          banner
  POST /ask       {"query": "...", "top_k": 5}
  POST /retrieve  {"query": "...", "top_k": 5}
  GET  /chunks/ID one chunk by id
  GET  /healthz   readiness (artifacts loaded)
  GET  /metrics   Prometheus metrics

The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, err := serving()
	if err != nil {
		return describe(err)
	}

	addr := serveAddr
	if addr == "" {
		addr = s.Config.Server.Addr
	}
	if s.Config.Server.JSONLogs {
		logger.SetJSON(true)
	}

	server, err := api.NewServer(
		&api.Ports{Answer: s.Answer, Retrieval: s.Retrieval},
		api.Config{Addr: addr, DefaultTopK: s.Config.Retrieval.TopK},
	)
	if err != nil {
		return err
	}

	// Load artifacts up front so a missing build is reported at startup.
	if _, err := s.Retrieval.Manifest(cmd.Context()); err != nil {
		logger.Warn("artifacts not loaded: %v", describe(err))
	}

	watchPrompts(cmd.Context(), s)

	cmd.Printf("Verdict API listening on %s\n", addr)
	return server.Run(cmd.Context())
}
