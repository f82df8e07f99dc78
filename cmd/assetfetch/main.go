package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/ZebulonRouseFrantzich/assetfetch/internal/assets"
	"github.com/ZebulonRouseFrantzich/assetfetch/internal/config"
	"github.com/ZebulonRouseFrantzich/assetfetch/internal/logging"
	"github.com/ZebulonRouseFrantzich/assetfetch/internal/platform"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args, os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		configPath string
		logLevel   string
		logger     *slog.Logger
	)

	app := &cli.Command{
		Name:      "assetfetch",
		Usage:     "Download and unpack the asset archive when the asset directory is missing",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to the Lua config file (default: " + config.DefaultFile + " if present)",
				Destination: &configPath,
				Sources:     cli.EnvVars("ASSETFETCH_CONFIG"),
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				Value:       "info",
				Destination: &logLevel,
				Sources:     cli.EnvVars("ASSETFETCH_LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = logging.New(stderr, logLevel)
			return ctx, err
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return fetch(ctx, logger, configPath, stdout)
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger, _ = logging.New(stderr, "info")
		}
		logger.Error("assetfetch failed", slog.String("error", config.FormatError(err, logLevel == "debug")))
		return err
	}

	return nil
}

func fetch(ctx context.Context, logger *slog.Logger, configPath string, stdout io.Writer) error {
	cfg, err := config.NewParser(platform.NewDetector()).Load(ctx, configPath)
	if err != nil {
		return err
	}

	fetcher, err := assets.NewFetcher(cfg,
		assets.WithOutput(stdout),
		assets.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	result, err := fetcher.Ensure(ctx)
	if err != nil {
		return err
	}

	if result.Skipped {
		logger.Info("assets already present", slog.String("target", result.TargetDir))
		return nil
	}

	logger.Info("assets fetched",
		slog.String("target", result.TargetDir),
		slog.Int("files", len(result.Files)),
		slog.String("size", humanize.Bytes(result.TotalSize)),
		slog.Duration("elapsed", result.Elapsed),
	)
	return nil
}
