package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/megalab/halo/internal/capture"
	"github.com/megalab/halo/internal/logging"
	"github.com/megalab/halo/internal/provider"
)

// NewCaptureCmd constructs the `halo capture` command: one guided capture
// exchange against a session from the terminal.
func NewCaptureCmd() *cobra.Command {
	var session string
	var method string
	var name string
	var domain string

	cmd := &cobra.Command{
		Use:   "capture [message]",
		Short: "Send one capture exchange to a session",
		Long: `Send a single expert message to a capture session and print the agent's
guiding reply. Both turns are appended to the session history, so repeated
invocations against the same --session build up a reviewable conversation.

Methods: 1 = narrative storytelling, 2 = targeted questions,
3 = assumption challenges, 4 = pattern synthesis.

Examples:
  halo capture --session s-42 "when the line stalls I always check the feeder first"
  halo capture --session s-42 --method 2 "we lost a batch to that in 2019"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			providerCfg := provider.ConfigFromEnv()
			chatModel, err := provider.New(ctx, providerCfg)
			if err != nil {
				return fmt.Errorf("capture: failed to initialise model provider: %w", err)
			}
			gen := provider.NewGenerator(chatModel)

			hist, err := openHistoryStore(log)
			if err != nil {
				return fmt.Errorf("capture: %w", err)
			}
			if hist == nil {
				return fmt.Errorf("capture: session history is required; unset HALO_HISTORY_DB=disabled")
			}
			defer func() { _ = hist.Close() }()

			mem, _, closeMemory, err := buildMemory(ctx, log)
			if err != nil {
				return fmt.Errorf("capture: %w", err)
			}
			defer closeMemory()

			var storyMem capture.StoryMemory
			if mem != nil {
				storyMem = mem
			}

			agent, err := capture.NewAgent(gen, hist, storyMem, capture.Config{})
			if err != nil {
				return fmt.Errorf("capture: failed to initialise agent: %w", err)
			}

			profile := capture.Profile{Name: name, Domain: domain}
			ex, err := agent.Respond(ctx, session, method, args[0], profile, nil)
			if err != nil {
				return fmt.Errorf("capture: %w", err)
			}

			fmt.Println(ex.Reply)
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Session ID to capture into (required)")
	cmd.Flags().StringVarP(&method, "method", "m", "1", "Capture method key (1-4)")
	cmd.Flags().StringVar(&name, "name", "", "Expert's name for prompt personalisation")
	cmd.Flags().StringVar(&domain, "domain", "", "Expert's domain for prompt personalisation")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}
