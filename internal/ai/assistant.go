// Package ai describes optional language-model assistance for recruiters.
package ai

import (
	"context"

	"github.com/spigell/doc-matcher/internal/matcher"
)

// Explanation is a model's reading of why a consultant fits a job.
type Explanation struct {
	Fit       bool     `json:"fit" yaml:"fit"`
	Score     float64  `json:"score" yaml:"score"`
	Summary   string   `json:"summary" yaml:"summary"`
	Strengths []string `json:"strengths,omitempty" yaml:"strengths,omitempty"`
	Gaps      []string `json:"gaps,omitempty" yaml:"gaps,omitempty"`
	Raw       string   `json:"-" yaml:"-"`
}

type Explainer interface {
	Explain(ctx context.Context, job *matcher.JobDescription, consultant *matcher.ConsultantProfile) (*Explanation, error)
}
