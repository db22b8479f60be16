package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veracityhq/claimcheck/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP verification API",
	Long: `Serve starts the HTTP API:

  POST /check    {"llm_output": "...", "debug": false} -> verification report
  GET  /search   ?q=...                                -> raw search passthrough
  GET  /healthz                                        -> liveness

Example:
  claimcheck serve --addr :8000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	p, searcher, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	srv := server.New(p, searcher, cfg.Server)

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Search endpoint: %s\n", cfg.Search.URL)
		fmt.Fprintf(os.Stderr, "ML provider: %s\n", cfg.ML.Provider)
	}
	fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)

	return srv.Router().Run(cfg.Server.Addr)
}
