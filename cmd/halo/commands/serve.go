package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/eino/callbacks"
	"github.com/spf13/cobra"

	"github.com/megalab/halo/internal/capture"
	"github.com/megalab/halo/internal/logging"
	"github.com/megalab/halo/internal/provider"
	"github.com/megalab/halo/internal/server"
	"github.com/megalab/halo/internal/tracing"
)

// NewServeCmd constructs the `halo serve` command, which starts the HTTP
// server exposing the capture and review API.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HALO capture and review HTTP server",
		Long: `Start the HALO HTTP server on localhost.

The server exposes the capture API (one guided exchange per request), the
post-session review API, and per-session prompt override management.
Session history is kept in a local SQLite database; captured stories are
retrievable across methods when a Qdrant instance is configured.

Examples:
  halo serve
  halo serve --port 9090
  MODEL_PROVIDER=azure halo serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			log.Info("serve starting", slog.String("provider", os.Getenv("MODEL_PROVIDER")))

			// Setup Langfuse tracing — opt-in, no-op if keys are absent.
			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
				log.Info("langfuse tracing enabled")
			} else {
				log.Info("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
			}

			providerCfg := provider.ConfigFromEnv()
			chatModel, err := provider.New(ctx, providerCfg)
			if err != nil {
				return fmt.Errorf("serve: failed to initialise model provider: %w", err)
			}
			gen := provider.NewGenerator(chatModel)
			log.Info("provider initialised", slog.String("provider", string(providerCfg.Backend)))

			hist, err := openHistoryStore(log)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			if hist == nil {
				return fmt.Errorf("serve: session history is required; unset HALO_HISTORY_DB=disabled")
			}
			defer func() { _ = hist.Close() }()

			mem, qs, closeMemory, err := buildMemory(ctx, log)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer closeMemory()

			// A nil *memory.Memory must become a nil interface, not a
			// typed nil, or the agent would try to call it.
			var storyMem capture.StoryMemory
			if mem != nil {
				storyMem = mem
			}

			agent, err := capture.NewAgent(gen, hist, storyMem, capture.Config{})
			if err != nil {
				return fmt.Errorf("serve: failed to initialise capture agent: %w", err)
			}

			pingers := []server.Pinger{
				server.NewLLMPinger(gen, string(providerCfg.Backend)),
				server.NewPinger("store", hist.Ping),
			}
			if qs != nil {
				pingers = append(pingers, server.NewPinger("qdrant", qs.Ping))
			}

			srv, err := server.New(agent, gen, hist, &server.Config{
				Host:      host,
				Port:      port,
				Logger:    log,
				Pingers:   pingers,
				RateLimit: envFloat("RATE_LIMIT", 0),
				RateBurst: envInt("RATE_BURST", 0),
				APIKey:    os.Getenv("HALO_API_KEY"),
				Review:    reviewConfigFromEnv(),
			})
			if err != nil {
				return fmt.Errorf("serve: failed to create server: %w", err)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host address to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "TCP port to listen on")

	return cmd
}
