package matcher

import (
	"context"
	"fmt"
	"net/http"
)

const (
	jobsPath       = "/job-description/"
	jobUploadsPath = "/job-description/upload-job-descriptions/"

	// JobStatusPending is the status of a job still waiting for the agents.
	JobStatusPending = "pending"
)

type JobDescription struct {
	ID          int      `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string   `json:"title" yaml:"title"`
	Department  string   `json:"department" yaml:"department"`
	Location    string   `json:"location" yaml:"location"`
	Description string   `json:"description" yaml:"description"`
	Skills      []string `json:"skills" yaml:"skills"`
	Experience  string   `json:"experience" yaml:"experience"`
	Status      string   `json:"status,omitempty" yaml:"status,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty" yaml:"created_at,omitempty"`

	Workflow *WorkflowStatus `json:"workflow_status,omitempty" yaml:"workflow_status,omitempty"`
}

// JobInput is the payload for creating or updating a job description.
type JobInput struct {
	Title       string   `json:"title"`
	Department  string   `json:"department"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Experience  string   `json:"experience"`
}

func (c *Client) ListJobs(ctx context.Context) ([]*JobDescription, error) {
	var jobs []*JobDescription
	if err := c.getJSON(ctx, c.endpoint(jobsPath), nil, &jobs); err != nil {
		return nil, fmt.Errorf("list job descriptions: %w", err)
	}

	return jobs, nil
}

func (c *Client) GetJob(ctx context.Context, id int) (*JobDescription, error) {
	var job JobDescription
	if err := c.getJSON(ctx, c.jobURL(id), nil, &job); err != nil {
		return nil, fmt.Errorf("get job description %d: %w", id, err)
	}

	return &job, nil
}

func (c *Client) CreateJob(ctx context.Context, in *JobInput) (*JobDescription, error) {
	var job JobDescription
	if err := c.sendJSON(ctx, http.MethodPost, c.endpoint(jobsPath), in, &job); err != nil {
		return nil, fmt.Errorf("create job description: %w", err)
	}

	return &job, nil
}

func (c *Client) UpdateJob(ctx context.Context, id int, in *JobInput) (*JobDescription, error) {
	var job JobDescription
	if err := c.sendJSON(ctx, http.MethodPut, c.jobURL(id), in, &job); err != nil {
		return nil, fmt.Errorf("update job description %d: %w", id, err)
	}

	if job.ID == 0 {
		job.ID = id
	}

	return &job, nil
}

func (c *Client) DeleteJob(ctx context.Context, id int) error {
	if err := c.sendJSON(ctx, http.MethodDelete, c.jobURL(id), nil, nil); err != nil {
		return fmt.Errorf("delete job description %d: %w", id, err)
	}

	return nil
}

// UploadJobs sends job description documents to the backend for extraction.
func (c *Client) UploadJobs(ctx context.Context, paths []string) ([]*JobDescription, error) {
	var jobs []*JobDescription
	if err := c.postFiles(ctx, c.endpoint(jobUploadsPath), uploadField, paths, &jobs); err != nil {
		return nil, fmt.Errorf("upload job descriptions: %w", err)
	}

	return jobs, nil
}

func (c *Client) jobURL(id int) string {
	return c.endpoint(fmt.Sprintf("%s%d", jobsPath, id))
}
