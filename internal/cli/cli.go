// Package cli implements the coast-events command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/headlandsdaily/coast-events/internal/aggregate"
	"github.com/headlandsdaily/coast-events/internal/config"
	"github.com/headlandsdaily/coast-events/internal/event"
	"github.com/headlandsdaily/coast-events/internal/fetch"
	"github.com/headlandsdaily/coast-events/internal/logger"
	"github.com/headlandsdaily/coast-events/internal/server"
	"github.com/headlandsdaily/coast-events/internal/sources"
)

var (
	flagPort    int
	flagSources string
	flagVerbose bool

	flagTown     string
	flagCategory string
	flagStart    string
	flagEnd      string
	flagLimit    int
	flagFormat   string
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coast-events",
		Short: "Aggregate what's happening on the Mendocino coast",
		Long: `Scrapes local event calendars, normalizes the results and serves them
as display-ready cards for the "What's happening" widget.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newQueryCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the widget API server",
		RunE:  runServe,
	}
	cmd.Flags().IntVar(&flagPort, "port", 0, "Listen port (overrides COAST_PORT)")
	cmd.Flags().StringVar(&flagSources, "sources", "", "Source registry YAML file (overrides COAST_SOURCES)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	return cmd
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run one aggregation and print the cards",
		RunE:  runQuery,
	}
	cmd.Flags().StringVar(&flagTown, "town", event.TownAll, "Town slug or 'all'")
	cmd.Flags().StringVar(&flagCategory, "type", event.CategoryAny, "Category tag or 'any'")
	cmd.Flags().StringVar(&flagStart, "start", "", "Window start (YYYY-MM-DD or M/D/YYYY)")
	cmd.Flags().StringVar(&flagEnd, "end", "", "Window end (YYYY-MM-DD or M/D/YYYY)")
	cmd.Flags().IntVar(&flagLimit, "limit", event.DefaultLimit, "Maximum cards to print")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSources, "sources", "", "Source registry YAML file (overrides COAST_SOURCES)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, agg, err := buildPipeline()
	if err != nil {
		return err
	}
	if flagPort != 0 {
		cfg.Server.Port = flagPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, agg).Start(ctx)
}

func runQuery(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	q := event.NewQuery()
	q.Town = flagTown
	q.Category = flagCategory
	q.Limit = flagLimit
	if flagStart != "" {
		d, err := event.ParseQueryDate(flagStart)
		if err != nil {
			return fmt.Errorf("parsing --start: %w", err)
		}
		q.From = &d
	}
	if flagEnd != "" {
		d, err := event.ParseQueryDate(flagEnd)
		if err != nil {
			return fmt.Errorf("parsing --end: %w", err)
		}
		q.To = &d
	}
	if err := q.Validate(); err != nil {
		return err
	}

	_, agg, err := buildPipeline()
	if err != nil {
		return err
	}

	result := agg.Run(context.Background(), q)
	return WriteOutput(os.Stdout, &result, format)
}

// buildPipeline assembles cache, client, parsers and aggregator from the
// environment plus any flag overrides.
func buildPipeline() (*config.Config, *aggregate.Aggregator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if flagSources != "" {
		cfg.Sources.Path = flagSources
	}
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	descriptors := sources.DefaultDescriptors()
	if cfg.Sources.Path != "" {
		descriptors, err = sources.LoadDescriptors(cfg.Sources.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("loading sources: %w", err)
		}
	}

	client := fetch.NewClient(fetch.NewCache(cfg.Fetch.CacheTTL), cfg.Fetch.Timeout)
	parsers, err := sources.Build(descriptors, client)
	if err != nil {
		return nil, nil, fmt.Errorf("building sources: %w", err)
	}

	return cfg, aggregate.New(parsers, cfg.Fetch.AggregateTimeout), nil
}
