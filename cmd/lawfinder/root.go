package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/lawfinder/internal/config"
	"github.com/JaimeStill/lawfinder/internal/infrastructure"
	"github.com/JaimeStill/lawfinder/internal/pipeline"
	"github.com/JaimeStill/lawfinder/pkg/cache"
)

// factory builds the pipeline once flags are parsed.
type factory func(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline

// defaultFactory runs without a database or blob storage. Fetches are
// cached when a Redis address is configured.
func defaultFactory(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	return pipeline.New(cfg, pipeline.Deps{
		Cache:  cache.New(&cfg.Cache, logger),
		Logger: logger,
	})
}

type app struct {
	build   factory
	verbose bool
}

func (a *app) pipeline() (*pipeline.Pipeline, error) {
	cfg, err := config.LoadPipeline()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := infrastructure.NewLogger()
	if !a.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	return a.build(cfg, logger), nil
}

func newRootCmd(build factory) *cobra.Command {
	a := &app{build: build}

	root := &cobra.Command{
		Use:           "lawfinder",
		Short:         "Discover regulatory sources and score compliance risk",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log pipeline activity to stderr")

	root.AddCommand(newDiscoverCmd(a), newAssessCmd(a))
	return root
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
