package forms

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/doc-matcher/internal/matcher"
)

const (
	JobNotFoundMessage = "Job description not found. It may have been deleted."

	createJobFallback = "Could not add job."
	updateJobFallback = "Could not update job."
)

var jobMessages = messages{
	"title": {
		"required": "Title is required",
		"max":      "Title must not exceed 255 characters",
	},
	"department":  {"*": "Department is required"},
	"location":    {"*": "Location is required"},
	"description": {"*": "Description is required"},
	"experience":  {"*": "Experience is required"},
	"skills":      {"*": "At least one skill is required"},
}

type JobForm struct {
	Title       string   `form:"title" validate:"required,max=255"`
	Department  string   `form:"department" validate:"required"`
	Location    string   `form:"location" validate:"required"`
	Description string   `form:"description" validate:"required"`
	Experience  string   `form:"experience" validate:"required"`
	Skills      []string `form:"skills" validate:"min=1"`
}

type JobWriter interface {
	CreateJob(ctx context.Context, in *matcher.JobInput) (*matcher.JobDescription, error)
	UpdateJob(ctx context.Context, id int, in *matcher.JobInput) (*matcher.JobDescription, error)
}

func JobFormFrom(job *matcher.JobDescription) *JobForm {
	return &JobForm{
		Title:       job.Title,
		Department:  job.Department,
		Location:    job.Location,
		Description: job.Description,
		Experience:  job.Experience,
		Skills:      append([]string(nil), job.Skills...),
	}
}

func (f *JobForm) Validate() FieldErrors {
	f.Title = strings.TrimSpace(f.Title)
	f.Department = strings.TrimSpace(f.Department)
	f.Location = strings.TrimSpace(f.Location)
	f.Description = strings.TrimSpace(f.Description)
	f.Experience = strings.TrimSpace(f.Experience)
	f.Skills = NormalizeSkills(f.Skills)

	return check(f, jobMessages)
}

func (f *JobForm) Input() *matcher.JobInput {
	return &matcher.JobInput{
		Title:       f.Title,
		Department:  f.Department,
		Location:    f.Location,
		Description: f.Description,
		Skills:      f.Skills,
		Experience:  f.Experience,
	}
}

// Submit creates a job description, or updates the one with the given id
// when it is non-zero.
func (f *JobForm) Submit(ctx context.Context, api JobWriter, id int) (*matcher.JobDescription, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, errs
	}

	var (
		job      *matcher.JobDescription
		err      error
		fallback = createJobFallback
	)

	if id == 0 {
		job, err = api.CreateJob(ctx, f.Input())
	} else {
		fallback = updateJobFallback
		job, err = api.UpdateJob(ctx, id, f.Input())
	}

	if err != nil {
		if errors.Is(err, matcher.ErrNotFound) {
			return nil, &SubmitError{Message: JobNotFoundMessage, Err: err}
		}
		return nil, &SubmitError{Message: matcher.DetailOr(err, fallback), Err: err}
	}

	return job, nil
}
