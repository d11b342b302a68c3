package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/derdiedas/internal/adapters/http/dto"
)

func newAnnotateCommand(services func(*cobra.Command) (*Services, error)) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "annotate [text...]",
		Short: "Color articles by gender",
		Long: `Annotate prints the text with every recognized article colored by gender.
Without arguments, or with "-", the text is read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			svc, err := services(cmd)
			if err != nil {
				return err
			}

			annotation, err := svc.Annotator.Annotate(cmd.Context(), text)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, dto.NewAnnotateResponse(annotation))
			}

			r := lipgloss.NewRenderer(out)
			_, err = fmt.Fprintln(out, renderAnnotation(r, annotation))

			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print spans, markup and counts as JSON")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(v)
}
