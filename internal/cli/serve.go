package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/abbrhelper/internal/app"
)

func newServeCommand(deps *CommandDeps, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Run the HTTP service: glossary API, document scans, imports and the
ops endpoints (/healthz, /readyz, /infra, /metrics).

The glossary is reloaded from the database (and the seed file, when
ABBR_SEED_FILE is set) on start and every ABBR_SEED_RELOAD_INTERVAL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.config(deps)
			log := deps.NewLogger(cfg)
			defer func() { _ = log.Sync() }()

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			return a.Run()
		},
	}
}
