package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penzero00/Panel-Zero/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the review engine.

Endpoints:
  GET  /health              — Health check
  POST /api/inspect         — Extract a document's structure
  POST /api/review          — Queue a review job for a document
  GET  /api/jobs/{id}       — Poll a review job
  GET  /api/documents/{id}  — Download an annotated document
  GET  /api/ws              — WebSocket job progress stream`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 6142, "port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")

	listen := fmt.Sprintf("%s:%d", addr, port)
	srv, err := api.New(listen, cfg)
	if err != nil {
		return err
	}
	return srv.ListenAndServe()
}
