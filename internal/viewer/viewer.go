// Package viewer loads a job description together with its top matches and
// workflow status, generating matches when the backend has none yet.
package viewer

import (
	"context"
	"fmt"

	"github.com/spigell/doc-matcher/internal/matcher"
	"github.com/spigell/doc-matcher/internal/notify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	FetchFailedMessage    = "Failed to fetch matches. Please try again."
	GenerateFailedMessage = "Failed to generate matches. Please try again."

	errorTitle = "Error"
)

// API is the part of the backend client the viewer needs.
type API interface {
	TopMatches(ctx context.Context, jobID int) ([]*matcher.Match, error)
	AllMatches(ctx context.Context, jobID int) ([]*matcher.Match, error)
	WorkflowStatuses(ctx context.Context) ([]*matcher.WorkflowStatus, error)
}

// Detail is what the job detail view shows. Err is set when loading failed;
// the sections then fall back to their empty states.
type Detail struct {
	Job       *matcher.JobDescription `json:"job" yaml:"job"`
	Matches   []*matcher.Match        `json:"matches" yaml:"matches"`
	Workflow  *matcher.WorkflowStatus `json:"workflow_status" yaml:"workflow_status"`
	Generated bool                    `json:"generated" yaml:"generated"`
	Err       error                   `json:"-" yaml:"-"`
}

type Viewer struct {
	api      API
	notifier notify.Notifier
	logger   *zap.Logger
}

func New(api API, notifier notify.Notifier, logger *zap.Logger) *Viewer {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Viewer{api: api, notifier: notifier, logger: logger}
}

// Load fetches top matches and workflow statuses concurrently. When the job
// has no matches yet it asks the backend to generate them once and fetches
// the top matches once more. Cancelling ctx aborts in-flight requests
// without notifying.
func (v *Viewer) Load(ctx context.Context, job *matcher.JobDescription) *Detail {
	detail := &Detail{Job: job}
	log := v.logger.With(zap.Int("job_id", job.ID))

	var (
		matches  []*matcher.Match
		statuses []*matcher.WorkflowStatus
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = v.api.TopMatches(gctx, job.ID)
		return err
	})
	g.Go(func() error {
		var err error
		statuses, err = v.api.WorkflowStatuses(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		detail.Err = err
		if ctx.Err() != nil {
			return detail
		}
		log.Warn("fetching matches failed", zap.Error(err))
		notify.Error(v.notifier, errorTitle, FetchFailedMessage)
		return detail
	}

	detail.Workflow = matcher.FindWorkflowStatus(statuses, job.ID)
	detail.Matches = matches

	if len(matches) > 0 {
		return detail
	}

	generated, err := v.generate(ctx, job.ID)
	if err != nil {
		detail.Err = err
		if ctx.Err() != nil {
			return detail
		}
		log.Warn("generating matches failed", zap.Error(err))
		notify.Error(v.notifier, errorTitle, GenerateFailedMessage)
		return detail
	}

	log.Info("matches generated", zap.Int("count", len(generated)))
	detail.Matches = generated
	detail.Generated = true

	return detail
}

func (v *Viewer) generate(ctx context.Context, jobID int) ([]*matcher.Match, error) {
	v.logger.Info("no matches yet, generating", zap.Int("job_id", jobID))

	if _, err := v.api.AllMatches(ctx, jobID); err != nil {
		return nil, fmt.Errorf("generate matches: %w", err)
	}

	matches, err := v.api.TopMatches(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("fetch generated matches: %w", err)
	}

	return matches, nil
}
