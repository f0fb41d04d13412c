// Package commands defines all Cobra CLI commands for the halo binary.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/megalab/halo/internal/audit"
	"github.com/megalab/halo/internal/config"
	"github.com/megalab/halo/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "halo",
		Short: "HALO — multi-method expertise capture powered by LLMs",
		Long: `HALO captures the tacit expertise of a domain expert through guided
conversation, one capture method at a time, and produces a holistic written
review of each session.

Four capture methods are supported: narrative storytelling elicitation,
targeted questioning and probing, observational simulation and shadowing,
and protocol analysis with think-aloud. Captured stories feed later methods
through semantic retrieval when a Qdrant instance is configured.

Model provider is selected via the MODEL_PROVIDER environment variable
or a YAML config file (~/.halo/config.yaml).
See 'halo --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env is a development convenience; real env vars always win
			// because godotenv never overwrites an existing variable.
			_ = godotenv.Load()

			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.halo/config.yaml)")

	root.AddCommand(
		NewServeCmd(),
		NewCaptureCmd(),
		NewReviewCmd(),
		NewVersionCmd(),
	)

	return root
}
