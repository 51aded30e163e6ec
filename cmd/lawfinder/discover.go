package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/lawfinder/internal/discovery"
)

func newDiscoverCmd(a *app) *cobra.Command {
	var (
		regions []string
		minYear int
	)

	cmd := &cobra.Command{
		Use:   "discover [feature summary]",
		Short: "Find and rank official sources for a feature",
		Long: `Crawls seed sources for the given regions, falls back to web search and
a curated list when nothing qualifies, then ranks the pages and prints them as JSON.
No index is persisted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline()
			if err != nil {
				return err
			}

			req := discovery.Request{
				FeatureSummary: strings.Join(args, " "),
				Regions:        regions,
			}
			if cmd.Flags().Changed("min-year") {
				req.MinYear = &minYear
			}

			result, err := p.Discovery.Discover(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringSliceVarP(&regions, "regions", "r", nil, "jurisdictions, e.g. Utah,EU")
	cmd.Flags().IntVar(&minYear, "min-year", discovery.DefaultMinYear, "oldest acceptable publication year; 0 disables")
	return cmd
}
