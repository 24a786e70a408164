package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/abbrhelper/internal/app"
)

func newImportCommand(deps *CommandDeps, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import abbreviations from a semicolon-delimited file",
		Long: `Import abbreviations from a semicolon-delimited file:

  # comment
  CPU;Central Processing Unit
  PC;Personal Computer;Program Counter

Each description becomes its own entry. Entries already in the glossary are
counted as duplicates; malformed lines are skipped and logged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(flags.output); err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			cfg := flags.config(deps)
			log := deps.NewLogger(cfg)
			defer func() { _ = log.Sync() }()

			core, err := app.OpenCore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer core.Close()

			summary, err := core.Importer.ImportBytes(cmd.Context(), raw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if done, err := writeStructured(out, flags.output, summary); done {
				return err
			}
			_, err = fmt.Fprintf(out, "created: %d\nduplicates: %d\ninvalid: %d\nskipped lines: %d\n",
				summary.Created, summary.Duplicates, summary.Invalid, summary.SkippedLines)
			return err
		},
	}
}
