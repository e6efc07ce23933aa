package forms

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/doc-matcher/internal/matcher"
)

const (
	DuplicateEmailMessage     = "This email is already registered. Please use a different email address."
	ConsultantNotFoundMessage = "Consultant not found. They may have been deleted."

	createConsultantFallback = "Failed to create consultant"
	updateConsultantFallback = "Failed to update consultant"
)

var consultantMessages = messages{
	"name": {"*": "Name is required and must be between 1 and 255 characters"},
	"email": {
		"required":    "Email is required",
		"loose_email": "Please enter a valid email address",
	},
	"phone":        {"*": "Phone number must not exceed 20 characters"},
	"experience":   {"*": "Experience must be a non-negative number of years"},
	"location":     {"*": "Location must not exceed 100 characters"},
	"project":      {"*": "Project details must be at least 10 characters"},
	"availability": {"*": "Availability must be one of: available, busy, unavailable"},
	"skills":       {"*": "At least one skill is required"},
}

type ConsultantForm struct {
	Name         string   `form:"name" validate:"required,max=255"`
	Email        string   `form:"email" validate:"required,loose_email"`
	Phone        string   `form:"phone" validate:"omitempty,max=20"`
	Experience   *int     `form:"experience" validate:"omitempty,min=0"`
	Location     string   `form:"location" validate:"omitempty,max=100"`
	Project      string   `form:"project" validate:"omitempty,min=10"`
	Availability string   `form:"availability" validate:"required,oneof=available busy unavailable"`
	Skills       []string `form:"skills" validate:"min=1"`
}

// ConsultantWriter is the part of the backend client the form submits to.
type ConsultantWriter interface {
	CreateConsultant(ctx context.Context, in *matcher.ConsultantInput) (*matcher.ConsultantProfile, error)
	UpdateConsultant(ctx context.Context, id int, in *matcher.ConsultantInput) error
}

// ConsultantFormFrom prefills the form for editing an existing profile.
func ConsultantFormFrom(p *matcher.ConsultantProfile) *ConsultantForm {
	form := &ConsultantForm{
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		Location:     p.Location,
		Project:      p.Project,
		Availability: string(p.Availability),
		Skills:       append([]string(nil), p.Skills...),
	}
	if p.Experience > 0 {
		experience := p.Experience
		form.Experience = &experience
	}
	return form
}

func (f *ConsultantForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Location = strings.TrimSpace(f.Location)
	f.Project = strings.TrimSpace(f.Project)
	f.Availability = strings.ToLower(strings.TrimSpace(f.Availability))
	if f.Availability == "" {
		f.Availability = string(matcher.Available)
	}
	f.Skills = NormalizeSkills(f.Skills)
}

// Validate normalizes the form and returns nil when it can be submitted.
func (f *ConsultantForm) Validate() FieldErrors {
	f.normalize()
	return check(f, consultantMessages)
}

func (f *ConsultantForm) Input() *matcher.ConsultantInput {
	return &matcher.ConsultantInput{
		Name:         f.Name,
		Email:        f.Email,
		Skills:       f.Skills,
		Availability: matcher.Availability(f.Availability),
		Phone:        f.Phone,
		Experience:   f.Experience,
		Location:     f.Location,
		Project:      f.Project,
	}
}

// Submit validates the form and creates a consultant, or updates the
// consultant with the given id when it is non-zero. Nothing is sent when
// validation fails. Errors are either FieldErrors or *SubmitError.
func (f *ConsultantForm) Submit(ctx context.Context, api ConsultantWriter, id int) (*matcher.ConsultantProfile, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, errs
	}

	in := f.Input()

	if id == 0 {
		created, err := api.CreateConsultant(ctx, in)
		if err != nil {
			return nil, consultantSubmitError(err, createConsultantFallback)
		}
		return created, nil
	}

	if err := api.UpdateConsultant(ctx, id, in); err != nil {
		return nil, consultantSubmitError(err, updateConsultantFallback)
	}

	updated := &matcher.ConsultantProfile{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Skills:       in.Skills,
		Location:     in.Location,
		Project:      in.Project,
		Availability: in.Availability,
	}
	if in.Experience != nil {
		updated.Experience = *in.Experience
	}

	return updated, nil
}

func consultantSubmitError(err error, fallback string) error {
	switch {
	case errors.Is(err, matcher.ErrDuplicateEmail):
		return FieldErrors{"email": DuplicateEmailMessage}
	case errors.Is(err, matcher.ErrNotFound):
		return &SubmitError{Message: ConsultantNotFoundMessage, Err: err}
	default:
		return &SubmitError{Message: matcher.DetailOr(err, fallback), Err: err}
	}
}
