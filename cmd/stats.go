package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/doc-matcher/internal/listing"
	"github.com/spigell/doc-matcher/internal/matcher"
	"github.com/spigell/doc-matcher/internal/render"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard counters for jobs and consultants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newCLI(cmd)
		if err != nil {
			return err
		}
		if err := c.requireSession(); err != nil {
			return err
		}

		var (
			jobs        []*matcher.JobDescription
			consultants []*matcher.ConsultantProfile
		)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			var err error
			jobs, err = c.client.ListJobs(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			consultants, err = c.client.ListConsultants(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		stats := listing.ComputeStats(jobs, consultants)
		return c.print(stats, func() string { return render.StatsCard(stats) })
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
