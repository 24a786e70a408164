package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/abbrhelper/internal/app"
	"github.com/MrSnakeDoc/abbrhelper/internal/glossary"
)

func newScanCommand(deps *CommandDeps, flags *globalFlags) *cobra.Command {
	var (
		suppress string
		markup   bool
	)

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Scan a document for abbreviations",
		Long: `Scan a .txt, .docx or .pdf document and print the report.

Groups listed in --suppress (ids or names) hide their abbreviations from the
known list; those words are reported as unknown instead.

Examples:
  abbrhelper scan report.docx
  abbrhelper scan notes.txt --suppress 2,networking
  abbrhelper scan manual.pdf -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(flags.output); err != nil {
				return err
			}
			cfg := flags.config(deps)
			log := deps.NewLogger(cfg)
			defer func() { _ = log.Sync() }()

			core, err := app.OpenCore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer core.Close()

			suppressed, err := core.Glossary.Groups.Resolve(glossary.SplitNames(suppress))
			if err != nil {
				return err
			}

			scan, err := core.Scanner.ScanFile(cmd.Context(), args[0], suppressed)
			if err != nil {
				return fmt.Errorf("scan %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if done, err := writeStructured(out, flags.output, scan); done {
				return err
			}
			if markup {
				_, err = fmt.Fprint(out, scan.ReportMarkup)
			} else {
				_, err = fmt.Fprint(out, scan.Report)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&suppress, "suppress", "", "Comma-separated group ids or names to suppress")
	cmd.Flags().BoolVar(&markup, "markup", false, "Print the report with HTML line breaks")

	return cmd
}
