package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/spigell/doc-matcher/internal/forms"
	"github.com/spigell/doc-matcher/internal/listing"
	"github.com/spigell/doc-matcher/internal/matcher"
	"github.com/spigell/doc-matcher/internal/notify"
	"github.com/spigell/doc-matcher/internal/render"
)

var consultantsCmd = &cobra.Command{
	Use:     "consultants",
	Aliases: []string{"consultant", "cp"},
	Short:   "Manage consultant profiles",
}

var consultantsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List consultant profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newCLI(cmd)
		if err != nil {
			return err
		}
		if err := c.requireSession(); err != nil {
			return err
		}

		var availability matcher.Availability
		if raw, _ := cmd.Flags().GetString("availability"); raw != "" {
			if availability, err = matcher.ParseAvailability(raw); err != nil {
				return err
			}
		}

		consultants, err := c.client.ListConsultants(cmd.Context())
		if err != nil {
			return err
		}

		query, _ := cmd.Flags().GetString("search")
		steps := []listing.Filter[*matcher.ConsultantProfile]{
			listing.NewSearch(query, listing.ConsultantFields),
			listing.NewAvailability(availability),
		}

		consultants, err = listing.Run(cmd.Context(), c.logger, steps, consultants)
		if err != nil {
			return err
		}

		return printConsultants(c, consultants)
	},
}

var consultantsShowCmd = &cobra.Command{
	Use:   "show CONSULTANT_ID",
	Short: "Show a consultant profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCLI(cmd)
		if err != nil {
			return err
		}
		if err := c.requireSession(); err != nil {
			return err
		}

		id, err := parseID(args[0], "consultant")
		if err != nil {
			return err
		}

		profile, err := c.client.GetConsultant(cmd.Context(), id)
		if err != nil {
			return err
		}

		return c.print(profile, func() string { return render.ConsultantCard(profile) })
	},
}

var consultantsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a consultant profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return saveConsultant(cmd, 0)
	},
}

var consultantsUpdateCmd = &cobra.Command{
	Use:   "update CONSULTANT_ID",
	Short: "Update a consultant profile. Only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "consultant")
		if err != nil {
			return err
		}
		return saveConsultant(cmd, id)
	},
}

var consultantsDeleteCmd = &cobra.Command{
	Use:   "delete CONSULTANT_ID",
	Short: "Delete a consultant profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCLI(cmd)
		if err != nil {
			return err
		}
		if err := c.requireSession(); err != nil {
			return err
		}

		id, err := parseID(args[0], "consultant")
		if err != nil {
			return err
		}

		return c.deleted(cmd, "consultant", func() error {
			return c.client.DeleteConsultant(cmd.Context(), id)
		})
	},
}

var consultantsUploadCmd = &cobra.Command{
	Use:   "upload FILE...",
	Short: "Upload consultant CVs (.pdf, .txt, .doc, .docx)",
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

		consultants, err := c.client.UploadConsultants(cmd.Context(), args)
		if err != nil {
			notify.Error(c.notifier, errorTitle, matcher.DetailOr(err, "Could not upload consultant profiles."))
			return err
		}

		notify.Success(c.notifier, "Upload complete", fmt.Sprintf("%d consultant profile(s) created", len(consultants)))
		return printConsultants(c, consultants)
	},
}

var consultantsAvailabilityCmd = &cobra.Command{
	Use:   "availability CONSULTANT_ID [available|busy|unavailable]",
	Short: "Change a consultant's availability",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCLI(cmd)
		if err != nil {
			return err
		}
		if err := c.requireSession(); err != nil {
			return err
		}

		id, err := parseID(args[0], "consultant")
		if err != nil {
			return err
		}

		raw := ""
		if len(args) == 2 {
			raw = args[1]
		} else {
			prompt := promptui.Select{Label: "Availability", Items: matcher.Availabilities}
			if _, raw, err = prompt.Run(); err != nil {
				return err
			}
		}

		availability, err := matcher.ParseAvailability(raw)
		if err != nil {
			return err
		}

		profile, err := c.client.UpdateAvailability(cmd.Context(), id, availability)
		if err != nil {
			notify.Error(c.notifier, errorTitle, matcher.DetailOr(err, "Could not update availability."))
			return err
		}

		notify.Success(c.notifier, "Availability updated", string(availability))
		if profile == nil {
			return nil
		}
		return c.print(profile, func() string { return render.ConsultantCard(profile) })
	},
}

var consultantsSearchCmd = &cobra.Command{
	Use:   "search SKILL",
	Short: "Find consultants with a skill, searched by the backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCLI(cmd)
		if err != nil {
			return err
		}
		if err := c.requireSession(); err != nil {
			return err
		}

		consultants, err := c.client.SearchBySkill(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printConsultants(c, consultants)
	},
}

func init() {
	rootCmd.AddCommand(consultantsCmd)
	consultantsCmd.AddCommand(
		consultantsListCmd,
		consultantsShowCmd,
		consultantsCreateCmd,
		consultantsUpdateCmd,
		consultantsDeleteCmd,
		consultantsUploadCmd,
		consultantsAvailabilityCmd,
		consultantsSearchCmd,
	)

	consultantsListCmd.Flags().StringP("search", "s", "", "case-insensitive search over name, skills, location and availability")
	consultantsListCmd.Flags().String("availability", "", "keep only consultants with this availability")

	addConsultantFlags(consultantsCreateCmd)
	addConsultantFlags(consultantsUpdateCmd)

	consultantsDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func printConsultants(c *cli, consultants []*matcher.ConsultantProfile) error {
	return c.print(consultants, func() string {
		return render.List(consultants, render.ConsultantCard, render.NoConsultants)
	})
}

func addConsultantFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "full name")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("phone", "", "phone number")
	cmd.Flags().Int("experience", 0, "years of experience")
	cmd.Flags().String("location", "", "location")
	cmd.Flags().String("project", "", "current or recent project details")
	cmd.Flags().String("availability", "", "available, busy or unavailable (default available)")
	cmd.Flags().StringSlice("skills", nil, "skills, comma separated")
}

func saveConsultant(cmd *cobra.Command, id int) error {
	c, err := newCLI(cmd)
	if err != nil {
		return err
	}
	if err := c.requireSession(); err != nil {
		return err
	}

	form := &forms.ConsultantForm{}
	if id != 0 {
		existing, err := c.client.GetConsultant(cmd.Context(), id)
		if errors.Is(err, matcher.ErrNotFound) {
			return c.submitted(&forms.SubmitError{Message: forms.ConsultantNotFoundMessage, Err: err}, "", "")
		}
		if err != nil {
			return err
		}
		form = forms.ConsultantFormFrom(existing)
	}

	applyConsultantFlags(cmd, form)

	profile, err := form.Submit(cmd.Context(), c.client, id)

	success := "Consultant created"
	if id != 0 {
		success = "Consultant updated"
	}
	if err := c.submitted(err, success, form.Name); err != nil {
		return err
	}

	return c.print(profile, func() string { return render.ConsultantCard(profile) })
}

func applyConsultantFlags(cmd *cobra.Command, form *forms.ConsultantForm) {
	flags := cmd.Flags()

	strFlags := map[string]*string{
		"name":         &form.Name,
		"email":        &form.Email,
		"phone":        &form.Phone,
		"location":     &form.Location,
		"project":      &form.Project,
		"availability": &form.Availability,
	}
	for name, target := range strFlags {
		if flags.Changed(name) {
			*target, _ = flags.GetString(name)
		}
	}

	if flags.Changed("experience") {
		experience, _ := flags.GetInt("experience")
		form.Experience = &experience
	}

	if flags.Changed("skills") {
		form.Skills, _ = flags.GetStringSlice("skills")
	}
}
