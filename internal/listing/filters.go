package listing

import (
	"context"
	"strings"

	"github.com/spigell/doc-matcher/internal/matcher"
)

type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type searchFilter[T any] struct {
	toggle
	query  string
	fields func(T) []string
}

// NewSearch keeps items where any of the fields contains query, ignoring
// case. An empty query disables the step.
func NewSearch[T any](query string, fields func(T) []string) Filter[T] {
	f := &searchFilter[T]{query: strings.ToLower(strings.TrimSpace(query)), fields: fields}
	if f.query == "" {
		f.Disable("empty query")
	}
	return f
}

func (f *searchFilter[T]) Name() string { return "search" }

func (f *searchFilter[T]) Apply(_ context.Context, items []T) ([]T, Step, error) {
	kept, step := keep(items, func(item T) bool {
		for _, field := range f.fields(item) {
			if strings.Contains(strings.ToLower(field), f.query) {
				return true
			}
		}
		return false
	})
	return kept, step, nil
}

func (f *searchFilter[T]) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: map[string]string{"query": f.query}}
}

// JobFields are the values a job search matches against.
func JobFields(job *matcher.JobDescription) []string {
	fields := []string{job.Title, job.Department, job.Location, job.CreatedAt}
	return append(fields, job.Skills...)
}

// ConsultantFields are the values a consultant search matches against.
func ConsultantFields(p *matcher.ConsultantProfile) []string {
	fields := []string{p.Name, p.Location, string(p.Availability)}
	return append(fields, p.Skills...)
}

type availabilityFilter struct {
	toggle
	availability matcher.Availability
}

// NewAvailability keeps consultants with the given availability. An empty
// value disables the step.
func NewAvailability(availability matcher.Availability) Filter[*matcher.ConsultantProfile] {
	f := &availabilityFilter{availability: availability}
	if availability == "" {
		f.Disable("no availability requested")
	}
	return f
}

func (f *availabilityFilter) Name() string { return "availability" }

func (f *availabilityFilter) Apply(_ context.Context, items []*matcher.ConsultantProfile) ([]*matcher.ConsultantProfile, Step, error) {
	kept, step := keep(items, func(p *matcher.ConsultantProfile) bool {
		return strings.EqualFold(string(p.Availability), string(f.availability))
	})
	return kept, step, nil
}

type jobStatusFilter struct {
	toggle
	status string
}

// NewJobStatus keeps job descriptions in the given status. An empty status
// disables the step.
func NewJobStatus(status string) Filter[*matcher.JobDescription] {
	f := &jobStatusFilter{status: strings.TrimSpace(status)}
	if f.status == "" {
		f.Disable("no status requested")
	}
	return f
}

func (f *jobStatusFilter) Name() string { return "job_status" }

func (f *jobStatusFilter) Apply(_ context.Context, items []*matcher.JobDescription) ([]*matcher.JobDescription, Step, error) {
	kept, step := keep(items, func(job *matcher.JobDescription) bool {
		return strings.EqualFold(job.Status, f.status)
	})
	return kept, step, nil
}
