package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/abbrhelper/internal/version"
)

func newVersionCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			out := cmd.OutOrStdout()
			if done, err := writeStructured(out, flags.output, info); done {
				return err
			}
			_, err := fmt.Fprintln(out, info.String())
			return err
		},
	}
}
