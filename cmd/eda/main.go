package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"solareda/internal/config"
	"solareda/internal/dataprocessing"
	"solareda/internal/exporter"
	"solareda/internal/infrastructure"
	"solareda/pkg/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds `eda [path]`. The report goes to stdout; logs and
// errors go to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eda [path]",
		Short: "Exploratory analysis of a solar station dataset",
		Long: "eda loads a CSV or XLSX solar station export and prints its schema,\n" +
			"descriptive and summary statistics, missing and negative value counts,\n" +
			"the negative-row filter result and the wind and temperature analyses.\n\n" +
			"The path defaults to " + config.DefaultSampleDataset + ".",
		Version:      contracts.GetVersionInfo().String(),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultSampleDataset
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd.Context(), path, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func run(ctx context.Context, path string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, logFile, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger = infrastructure.WithComponent(logger, "cli")
	ctx = infrastructure.EnsureTraceID(ctx)

	ds, err := dataprocessing.NewLoader(logger).LoadFile(ctx, path)
	if err != nil {
		logger.ErrorContext(ctx, "Dataset load failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return err
	}

	report, err := dataprocessing.NewPipeline(logger, nil).Run(ctx, ds,
		dataprocessing.ReportOptions{CleanColumns: cfg.Analysis.CleanColumns})
	if err != nil {
		return err
	}

	return exporter.RenderReport(stdout, report)
}
