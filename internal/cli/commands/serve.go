package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/layered-lang/layered/internal/cli/config"
	"github.com/layered-lang/layered/internal/web"
)

var (
	serveHost string
	servePort int
	serveDev  bool
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the validation HTTP server",
		Long: `Start an HTTP server exposing validation as a service.

Endpoints:
  POST /validate - validate a document body, returns the diagnostic report
  POST /model    - validate and return the resolved model
  GET  /healthz  - liveness probe

Host and port come from layered.yml unless overridden by flags.`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveHost, "host", "", "Listen host (overrides config)")
	cmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides config)")
	cmd.Flags().BoolVar(&serveDev, "dev", false, "Human-readable logs instead of JSON")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	host := cfg.Server.Host
	if serveHost != "" {
		host = serveHost
	}
	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	logger, err := buildLogger(serveDev)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	infoColor := color.New(color.FgCyan)
	infoColor.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", addr)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := web.New(addr, logger)
	return server.Run(ctx)
}

func buildLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
