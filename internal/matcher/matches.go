package matcher

import (
	"context"
	"fmt"
	"math"
)

const (
	topMatchesPath = "/match-result/top-3-matches/%d"
	allMatchesPath = "/match-result/all-matches/%d"
)

// Match pairs a job description with a consultant. Scores and ranks are
// computed by the backend agents.
type Match struct {
	ID               int                `json:"id,omitempty" yaml:"id,omitempty"`
	JobDescriptionID int                `json:"job_description_id,omitempty" yaml:"job_description_id,omitempty"`
	Profile          *ConsultantProfile `json:"profile,omitempty" yaml:"profile,omitempty"`
	Consultant       *ConsultantProfile `json:"consultant,omitempty" yaml:"consultant,omitempty"`
	SimilarityScore  float64            `json:"similarity_score" yaml:"similarity_score"`
	Rank             int                `json:"rank" yaml:"rank"`
	RankedAt         string             `json:"ranked_at,omitempty" yaml:"ranked_at,omitempty"`
}

// Candidate returns the matched consultant. Depending on the endpoint the
// backend nests it under "profile" or "consultant".
func (m *Match) Candidate() *ConsultantProfile {
	if m.Profile != nil {
		return m.Profile
	}
	return m.Consultant
}

// Percent is the similarity score as a rounded percentage.
func (m *Match) Percent() int {
	return int(math.Round(m.SimilarityScore * 100))
}

// TopMatches returns the three best ranked consultants for a job. An empty
// result means the backend has not generated matches yet.
func (c *Client) TopMatches(ctx context.Context, jobID int) ([]*Match, error) {
	var matches []*Match
	if err := c.getItems(ctx, c.endpoint(fmt.Sprintf(topMatchesPath, jobID)), &matches, "json"); err != nil {
		return nil, fmt.Errorf("get top matches for job %d: %w", jobID, err)
	}

	return matches, nil
}

// AllMatches asks the backend to compare the job with every consultant.
// Calling it generates the matches when none exist yet.
func (c *Client) AllMatches(ctx context.Context, jobID int) ([]*Match, error) {
	var matches []*Match
	if err := c.getItems(ctx, c.endpoint(fmt.Sprintf(allMatchesPath, jobID)), &matches, "json"); err != nil {
		return nil, fmt.Errorf("get all matches for job %d: %w", jobID, err)
	}

	return matches, nil
}
