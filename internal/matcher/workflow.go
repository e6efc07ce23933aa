package matcher

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

const workflowStatusPath = "/workflow-status/"

const (
	StepJDParsed         = "jd_parsed"
	StepProfilesCompared = "profiles_compared"
	StepProfilesRanked   = "profiles_ranked"
	StepNotificationSent = "notification_sent"
)

var canonicalSteps = []string{StepJDParsed, StepProfilesCompared, StepProfilesRanked, StepNotificationSent}

// WorkflowStatus is the backend pipeline progress for one job description.
// Steps may arrive nested under "steps" or as flat boolean fields.
type WorkflowStatus struct {
	ID               int             `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	JobDescriptionID string          `json:"job_description_id" yaml:"job_description_id" mapstructure:"job_description_id"`
	Status           string          `json:"status,omitempty" yaml:"status,omitempty" mapstructure:"status"`
	Steps            map[string]bool `json:"steps" yaml:"steps" mapstructure:"steps"`

	Extra map[string]any `json:"-" yaml:"-" mapstructure:",remain"`
}

type WorkflowStep struct {
	Name  string
	Label string
	Done  bool
}

// OrderedSteps returns the known steps first, in pipeline order, then any
// other steps sorted by name.
func (w *WorkflowStatus) OrderedSteps() []WorkflowStep {
	steps := make([]WorkflowStep, 0, len(w.Steps))
	seen := make(map[string]bool, len(canonicalSteps))

	for _, name := range canonicalSteps {
		done, ok := w.Steps[name]
		if !ok {
			continue
		}
		seen[name] = true
		steps = append(steps, WorkflowStep{Name: name, Label: StepLabel(name), Done: done})
	}

	extra := make([]string, 0)
	for name := range w.Steps {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	for _, name := range extra {
		steps = append(steps, WorkflowStep{Name: name, Label: StepLabel(name), Done: w.Steps[name]})
	}

	return steps
}

// StepLabel turns "profiles_ranked" into "Profiles ranked".
func StepLabel(name string) string {
	label := strings.ReplaceAll(name, "_", " ")
	runes := []rune(label)
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func (c *Client) WorkflowStatuses(ctx context.Context) ([]*WorkflowStatus, error) {
	var statuses []*WorkflowStatus
	if err := c.getItems(ctx, c.endpoint(workflowStatusPath), &statuses, "mapstructure"); err != nil {
		return nil, fmt.Errorf("list workflow statuses: %w", err)
	}

	for _, status := range statuses {
		status.foldFlatSteps()
	}

	return statuses, nil
}

// WorkflowStatusForJob returns nil without an error when the backend has no
// workflow record for the job yet.
func (c *Client) WorkflowStatusForJob(ctx context.Context, jobID int) (*WorkflowStatus, error) {
	statuses, err := c.WorkflowStatuses(ctx)
	if err != nil {
		return nil, err
	}

	return FindWorkflowStatus(statuses, jobID), nil
}

func FindWorkflowStatus(statuses []*WorkflowStatus, jobID int) *WorkflowStatus {
	id := strconv.Itoa(jobID)
	for _, status := range statuses {
		if status != nil && status.JobDescriptionID == id {
			return status
		}
	}

	return nil
}

func (w *WorkflowStatus) foldFlatSteps() {
	for key, value := range w.Extra {
		done, ok := value.(bool)
		if !ok {
			continue
		}
		if w.Steps == nil {
			w.Steps = make(map[string]bool)
		}
		w.Steps[key] = done
		delete(w.Extra, key)
	}
}
