package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/derdiedas/internal/adapters/http/dto"
	"github.com/jsamuelsen/derdiedas/internal/domain"
)

func newTranslateCommand(services func(*cobra.Command) (*Services, error)) *cobra.Command {
	var (
		to     string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate German text into English or Spanish",
		Long: `Translate prints the text translated line by line. "Speaker:" prefixes,
blank lines and indentation are kept as they are. Without arguments, or
with "-", the text is read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := domain.ParseLanguage(to)
			if err != nil {
				return err
			}

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			svc, err := services(cmd)
			if err != nil {
				return err
			}

			translation, err := svc.Translator.Translate(cmd.Context(), text, target)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), dto.NewTranslateResponse(translation))
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), translation.Text)

			return err
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", string(domain.English), "target language (en, es)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the translation as JSON")

	return cmd
}
