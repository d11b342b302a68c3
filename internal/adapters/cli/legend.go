package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/derdiedas/internal/domain"
)

func newLegendCommand() *cobra.Command {
	var examples bool

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Show the gender colors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			r := lipgloss.NewRenderer(out)

			if _, err := fmt.Fprint(out, renderLegend(r)); err != nil {
				return err
			}

			if !examples {
				return nil
			}

			_, err := fmt.Fprintf(out, "\nExamples:\n  %s\n", strings.Join(domain.Examples(), "\n  "))

			return err
		},
	}

	cmd.Flags().BoolVar(&examples, "examples", false, "also list example sentences")

	return cmd
}
