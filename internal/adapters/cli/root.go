// Package cli is the command line adapter: it drives the annotation and
// translation services from cobra commands and prints to the terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/derdiedas/internal/ports"
)

// Services are the inbound ports the commands drive.
type Services struct {
	Annotator  ports.AnnotationService
	Translator ports.TranslationService
}

// Options are the persistent flags passed to the Builder.
type Options struct {
	// LogLevel overrides the configured log level when set.
	LogLevel string
}

// Builder creates the services on first use, so that commands which need
// no backend (legend, version) never touch the network.
type Builder func(ctx context.Context, opts Options) (*Services, error)

// VersionInfo is printed by the version command.
type VersionInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// NewRootCommand creates the derdiedas command tree.
func NewRootCommand(build Builder, info VersionInfo) *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:   "derdiedas",
		Short: "Color German articles by grammatical gender and translate German text",
		Long: `derdiedas highlights German definite and indefinite articles by the
grammatical gender of the noun they belong to, and translates German text
into English or Spanish while keeping "Speaker:" prefixes intact.

Examples:
  derdiedas annotate "Der Hund spielt mit dem Ball."
  echo "Anna: Guten Morgen!" | derdiedas translate --to es
  derdiedas legend`,
		Version:       info.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override log level (trace, debug, info, warn, error)")

	services := func(cmd *cobra.Command) (*Services, error) {
		return build(cmd.Context(), *opts)
	}

	root.AddCommand(
		newAnnotateCommand(services),
		newTranslateCommand(services),
		newLegendCommand(),
		newVersionCommand(info),
	)

	return root
}

func newVersionCommand(info VersionInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "derdiedas %s (commit %s, built %s)\n",
				info.Version, info.Commit, info.BuildTime)
		},
	}
}

// readInput joins args with spaces, or reads stdin when there are none or
// the only argument is "-". One trailing line break is dropped.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && (len(args) != 1 || args[0] != "-") {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	text := strings.TrimSuffix(string(data), "\n")

	return strings.TrimSuffix(text, "\r"), nil
}
