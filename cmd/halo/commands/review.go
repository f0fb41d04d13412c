package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/megalab/halo/internal/conversation"
	"github.com/megalab/halo/internal/logging"
	"github.com/megalab/halo/internal/provider"
	"github.com/megalab/halo/internal/review"
)

// NewReviewCmd constructs the `halo review` command: a one-shot holistic
// review of a capture conversation, from a stored session or a transcript file.
func NewReviewCmd() *cobra.Command {
	var session string
	var file string
	var customPrompt string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Run a holistic review of a capture conversation",
		Long: `Generate a written review of a complete capture conversation and print
the analysis to stdout.

The conversation comes from a stored session (--session) or from a JSON
transcript file (--file) containing an array of {role, content, timestamp}
turns. A review of a stored session is also persisted alongside it.

Examples:
  halo review --session s-42
  halo review --file transcript.json
  halo review --session s-42 --prompt "Focus on safety-critical decisions."`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (session == "") == (file == "") {
				return fmt.Errorf("review: exactly one of --session or --file is required")
			}

			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			providerCfg := provider.ConfigFromEnv()
			chatModel, err := provider.New(ctx, providerCfg)
			if err != nil {
				return fmt.Errorf("review: failed to initialise model provider: %w", err)
			}
			gen := provider.NewGenerator(chatModel)

			var turns []conversation.Turn
			var persist func(*review.Result)

			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("review: reading transcript: %w", err)
				}
				if err := json.Unmarshal(data, &turns); err != nil {
					return fmt.Errorf("review: parsing transcript: %w", err)
				}
			} else {
				hist, err := openHistoryStore(log)
				if err != nil {
					return fmt.Errorf("review: %w", err)
				}
				if hist == nil {
					return fmt.Errorf("review: session history is required; unset HALO_HISTORY_DB=disabled")
				}
				defer func() { _ = hist.Close() }()

				turns, err = hist.Turns(ctx, session)
				if err != nil {
					return fmt.Errorf("review: loading session %q: %w", session, err)
				}
				persist = func(res *review.Result) {
					if err := hist.SaveReview(ctx, session, res); err != nil {
						log.Warn("review: failed to persist result", slog.Any("error", err))
					}
				}
			}

			settings := review.Settings{Enabled: true, CustomPrompt: customPrompt}
			res, err := review.Run(ctx, gen, turns, settings, reviewConfigFromEnv())
			if err != nil {
				return fmt.Errorf("review: %w", err)
			}
			if persist != nil {
				persist(res)
			}

			fmt.Println(res.Analysis)
			if res.Metadata.Truncated {
				fmt.Fprintln(os.Stderr, "note: earlier turns were omitted to fit the token budget")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Stored session ID to review")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON transcript file to review")
	cmd.Flags().StringVar(&customPrompt, "prompt", "", "Custom analysis prompt replacing the default")

	return cmd
}
