// Package cli provides the abbrhelper command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/abbrhelper/internal/config"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
)

// CommandDeps holds the dependencies shared by every command.
type CommandDeps struct {
	LoadConfig func() *config.Config
	NewLogger  func(cfg *config.Config) logger.Logger
}

// DefaultDeps returns the dependencies used by the binary.
func DefaultDeps() *CommandDeps {
	return &CommandDeps{
		LoadConfig: config.Load,
		NewLogger: func(cfg *config.Config) logger.Logger {
			return logger.New(cfg.LogLevel, cfg.PrettyLog, cfg.LogFile)
		},
	}
}

// globalFlags are bound on the root command and read by every subcommand.
type globalFlags struct {
	dbFile string
	output string
}

// config loads the environment configuration and applies the flag overrides.
func (f *globalFlags) config(deps *CommandDeps) *config.Config {
	cfg := deps.LoadConfig()
	if f.dbFile != "" {
		cfg.DBFile = f.dbFile
	}
	return cfg
}

// NewRootCommand creates the root command with all subcommands.
func NewRootCommand(deps *CommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "abbrhelper",
		Short: "Abbreviation glossary and document scanner",
		Long: `abbrhelper keeps a glossary of abbreviations and scans documents
(.txt, .docx, .pdf) for abbreviation-shaped words.

Every scan reports the known abbreviations with their descriptions, the
unknown ones, and the words registered as "not an abbreviation".

Configuration comes from ABBR_* environment variables; --db-file overrides
ABBR_DB_FILE.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.dbFile, "db-file", "", "Path to the sqlite database (overrides ABBR_DB_FILE)")
	cmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "text", "Output format: text, json, yaml")

	cmd.AddCommand(newServeCommand(deps, flags))
	cmd.AddCommand(newScanCommand(deps, flags))
	cmd.AddCommand(newImportCommand(deps, flags))
	cmd.AddCommand(newVersionCommand(flags))

	return cmd
}
