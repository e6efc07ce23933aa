package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/doc-matcher/internal/forms"
	"github.com/spigell/doc-matcher/internal/listing"
	"github.com/spigell/doc-matcher/internal/matcher"
	"github.com/spigell/doc-matcher/internal/notify"
	"github.com/spigell/doc-matcher/internal/render"
	"github.com/spigell/doc-matcher/internal/viewer"
)

var jobsCmd = &cobra.Command{
	Use:     "jobs",
	Aliases: []string{"job", "jd"},
	Short:   "Manage job descriptions",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job descriptions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newCLI(cmd)
		if err != nil {
			return err
		}
		if err := c.requireSession(); err != nil {
			return err
		}

		jobs, err := c.client.ListJobs(cmd.Context())
		if err != nil {
			return err
		}

		query, _ := cmd.Flags().GetString("search")
		status, _ := cmd.Flags().GetString("status")
		if pending, _ := cmd.Flags().GetBool("pending"); pending {
			status = matcher.JobStatusPending
		}

		steps := []listing.Filter[*matcher.JobDescription]{
			listing.NewSearch(query, listing.JobFields),
			listing.NewJobStatus(status),
		}

		jobs, err = listing.Run(cmd.Context(), c.logger, steps, jobs)
		if err != nil {
			return err
		}

		return c.print(jobs, func() string {
			return render.List(jobs, render.JobCard, render.NoJobs)
		})
	},
}

var jobsShowCmd = &cobra.Command{
	Use:   "show JOB_ID",
	Short: "Show a job description with its top matches and workflow status",
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

		job, err := c.client.GetJob(cmd.Context(), id)
		if err != nil {
			return err
		}

		v := viewer.New(c.client, c.notifier, c.logger)

		if noTUI, _ := cmd.Flags().GetBool("no-tui"); !noTUI && c.interactive() {
			return viewer.Run(cmd.Context(), v, job)
		}

		detail := v.Load(cmd.Context(), job)
		return c.print(detail, func() string {
			return render.DetailView(detail.Job, detail.Matches, detail.Workflow, false)
		})
	},
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a job description",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return saveJob(cmd, 0)
	},
}

var jobsUpdateCmd = &cobra.Command{
	Use:   "update JOB_ID",
	Short: "Update a job description. Only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "job")
		if err != nil {
			return err
		}
		return saveJob(cmd, id)
	},
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete JOB_ID",
	Short: "Delete a job description",
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

		return c.deleted(cmd, "job", func() error {
			return c.client.DeleteJob(cmd.Context(), id)
		})
	},
}

var jobsUploadCmd = &cobra.Command{
	Use:   "upload FILE...",
	Short: "Upload job description documents (.pdf, .txt, .doc, .docx)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCLI(cmd)
		if err != nil {
			return err
		}
		if err := c.requireSession(); err != nil {
			return err
		}

		if err := forms.ValidateUploads(args); err != nil {
			return c.rejectUpload(err)
		}

		jobs, err := c.client.UploadJobs(cmd.Context(), args)
		if err != nil {
			notify.Error(c.notifier, errorTitle, matcher.DetailOr(err, "Could not upload job descriptions."))
			return err
		}

		notify.Success(c.notifier, "Upload complete", fmt.Sprintf("%d job description(s) created", len(jobs)))
		return c.print(jobs, func() string {
			return render.List(jobs, render.JobCard, render.NoJobs)
		})
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsListCmd, jobsShowCmd, jobsCreateCmd, jobsUpdateCmd, jobsDeleteCmd, jobsUploadCmd)

	jobsListCmd.Flags().StringP("search", "s", "", "case-insensitive search over title, department, location, skills and created date")
	jobsListCmd.Flags().String("status", "", "keep only jobs in this status")
	jobsListCmd.Flags().Bool("pending", false, "keep only pending jobs")

	jobsShowCmd.Flags().Bool("no-tui", false, "print the detail view instead of opening the interactive view")

	addJobFlags(jobsCreateCmd)
	addJobFlags(jobsUpdateCmd)

	jobsDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func addJobFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "job title")
	cmd.Flags().String("department", "", "department")
	cmd.Flags().String("location", "", "location")
	cmd.Flags().String("description", "", "job description text")
	cmd.Flags().String("description-file", "", "read the job description text from a file")
	cmd.Flags().String("experience", "", "required experience, e.g. \"3+ years\"")
	cmd.Flags().StringSlice("skills", nil, "required skills, comma separated")
}

func saveJob(cmd *cobra.Command, id int) error {
	c, err := newCLI(cmd)
	if err != nil {
		return err
	}
	if err := c.requireSession(); err != nil {
		return err
	}

	form := &forms.JobForm{}
	if id != 0 {
		existing, err := c.client.GetJob(cmd.Context(), id)
		if err != nil {
			return err
		}
		form = forms.JobFormFrom(existing)
	}

	if err := applyJobFlags(cmd, form); err != nil {
		return err
	}

	job, err := form.Submit(cmd.Context(), c.client, id)

	success := "Job added"
	if id != 0 {
		success = "Job updated"
	}
	if err := c.submitted(err, success, form.Title); err != nil {
		return err
	}

	c.logger.Debug("job saved", zap.Int("job_id", job.ID))
	return c.print(job, func() string { return render.JobCard(job) })
}

func applyJobFlags(cmd *cobra.Command, form *forms.JobForm) error {
	flags := cmd.Flags()

	strFlags := map[string]*string{
		"title":       &form.Title,
		"department":  &form.Department,
		"location":    &form.Location,
		"description": &form.Description,
		"experience":  &form.Experience,
	}
	for name, target := range strFlags {
		if flags.Changed(name) {
			*target, _ = flags.GetString(name)
		}
	}

	if flags.Changed("description-file") {
		path, _ := flags.GetString("description-file")
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read description file: %w", err)
		}
		form.Description = strings.TrimSpace(string(data))
	}

	if flags.Changed("skills") {
		form.Skills, _ = flags.GetStringSlice("skills")
	}

	return nil
}
