// Package main is the entry point for the derdiedas command line tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsamuelsen/derdiedas/internal/adapters/cli"
	"github.com/jsamuelsen/derdiedas/internal/bootstrap"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
)

// Build-time variables, injected via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	root := cli.NewRootCommand(build, cli.VersionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	})

	err := root.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// build loads configuration and wires the services. Logs go to stderr so
// stdout carries only command output.
func build(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return nil, err
	}

	logCfg := bootstrap.LoggingConfig(cfg)
	if opts.LogLevel != "" {
		logCfg.Level = opts.LogLevel
	}

	logger := logging.NewWithWriter(logCfg, os.Stderr)
	logging.SetDefault(logger)

	components, err := bootstrap.Build(ctx, cfg, logger, nil)
	if err != nil {
		return nil, err
	}

	return &cli.Services{
		Annotator:  components.Annotation,
		Translator: components.Translation,
	}, nil
}
