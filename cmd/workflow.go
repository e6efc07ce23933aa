package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/doc-matcher/internal/matcher"
	"github.com/spigell/doc-matcher/internal/render"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Show the matching workflow progress",
}

var workflowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workflow statuses of all job descriptions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newCLI(cmd)
		if err != nil {
			return err
		}
		if err := c.requireSession(); err != nil {
			return err
		}

		statuses, err := c.client.WorkflowStatuses(cmd.Context())
		if err != nil {
			return err
		}

		return c.print(statuses, func() string {
			return render.List(statuses, func(w *matcher.WorkflowStatus) string {
				return fmt.Sprintf("job %s\n%s", w.JobDescriptionID, render.WorkflowSection(w, false))
			}, render.NoWorkflow)
		})
	},
}

var workflowShowCmd = &cobra.Command{
	Use:   "show JOB_ID",
	Short: "Show the workflow status of a job description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCLI(cmd)
		if err != nil {
			return err
		}
		if err := c.requireSession(); err != nil {
			return err
		}

		id, err := parseID(args[0], "job")
		if err != nil {
			return err
		}

		status, err := c.client.WorkflowStatusForJob(cmd.Context(), id)
		if err != nil {
			return err
		}

		return c.print(status, func() string { return render.WorkflowSection(status, false) })
	},
}

func init() {
	rootCmd.AddCommand(workflowCmd)
	workflowCmd.AddCommand(workflowListCmd, workflowShowCmd)
}
