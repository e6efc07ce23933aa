package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/doc-matcher/internal/ai"
	"github.com/spigell/doc-matcher/internal/ai/gemini"
	"github.com/spigell/doc-matcher/internal/logger"
	"github.com/spigell/doc-matcher/internal/matcher"
	"github.com/spigell/doc-matcher/internal/render"
	"github.com/spigell/doc-matcher/internal/secrets"
	"github.com/spigell/doc-matcher/internal/viewer"
)

var matchesCmd = &cobra.Command{
	Use:     "matches",
	Aliases: []string{"match"},
	Short:   "Show consultants matched to a job description",
}

var matchesTopCmd = &cobra.Command{
	Use:   "top JOB_ID",
	Short: "Show the three best matches, generating matches when there are none yet",
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

		detail := viewer.New(c.client, c.notifier, c.logger).Load(cmd.Context(), &matcher.JobDescription{ID: id})
		if detail.Err != nil {
			return detail.Err
		}

		return c.print(detail.Matches, func() string {
			return render.MatchesSection(detail.Matches, false)
		})
	},
}

var matchesAllCmd = &cobra.Command{
	Use:   "all JOB_ID",
	Short: "Compare the job with every consultant and show all matches",
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

		matches, err := c.client.AllMatches(cmd.Context(), id)
		if err != nil {
			return err
		}

		return c.print(matches, func() string {
			return render.List(matches, render.MatchCard, render.NoMatches)
		})
	},
}

var matchesExplainCmd = &cobra.Command{
	Use:   "explain JOB_ID [CONSULTANT_ID]",
	Short: "Ask Gemini why consultants fit the job. Without a consultant, the top matches are explained",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runExplain,
}

func init() {
	rootCmd.AddCommand(matchesCmd)
	matchesCmd.AddCommand(matchesTopCmd, matchesAllCmd, matchesExplainCmd)
}

type explained struct {
	Consultant  *matcher.ConsultantProfile `json:"consultant" yaml:"consultant"`
	Explanation *ai.Explanation            `json:"explanation" yaml:"explanation"`
}

func runExplain(cmd *cobra.Command, args []string) error {
	c, err := newCLI(cmd)
	if err != nil {
		return err
	}
	if err := c.requireSession(); err != nil {
		return err
	}

	explainer, err := newExplainer(cmd.Context(), c.config.AI, c.logger)
	if err != nil {
		return err
	}

	jobID, err := parseID(args[0], "job")
	if err != nil {
		return err
	}

	var (
		job         *matcher.JobDescription
		consultants []*matcher.ConsultantProfile
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		job, err = c.client.GetJob(ctx, jobID)
		return err
	})
	g.Go(func() error {
		if len(args) == 2 {
			id, err := parseID(args[1], "consultant")
			if err != nil {
				return err
			}
			profile, err := c.client.GetConsultant(ctx, id)
			if err != nil {
				return err
			}
			consultants = []*matcher.ConsultantProfile{profile}
			return nil
		}

		matches, err := c.client.TopMatches(ctx, jobID)
		if err != nil {
			return err
		}
		for _, m := range matches {
			if candidate := m.Candidate(); candidate != nil {
				consultants = append(consultants, candidate)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if len(consultants) == 0 {
		c.logger.Info("exiting", zap.String("reason", "no matches to explain"), zap.String("hint", "run `"+app+" matches top "+args[0]+"` first"))
		return nil
	}

	results := make([]*explained, 0, len(consultants))
	for _, consultant := range consultants {
		explanation, err := explainer.Explain(cmd.Context(), job, consultant)
		if err != nil {
			c.logger.Warn("ai explanation failed", zap.Int("consultant_id", consultant.ID), zap.Error(err))
			continue
		}
		results = append(results, &explained{Consultant: consultant, Explanation: explanation})
	}

	if len(results) == 0 {
		return errors.New("no explanation could be generated")
	}

	return c.print(results, func() string {
		return render.List(results, explanationCard, "")
	})
}

func explanationCard(e *explained) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: fit=%t score=%.0f%%\n%s", e.Consultant.Name, e.Explanation.Fit, e.Explanation.Score*100, e.Explanation.Summary)
	if len(e.Explanation.Strengths) > 0 {
		fmt.Fprintf(&b, "\n+ %s", strings.Join(e.Explanation.Strengths, "\n+ "))
	}
	if len(e.Explanation.Gaps) > 0 {
		fmt.Fprintf(&b, "\n- %s", strings.Join(e.Explanation.Gaps, "\n- "))
	}
	return b.String()
}

func newExplainer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Explainer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("ai is disabled: set ai.enabled in the config file")
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: gcfg.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithFields(log, logger.AIFields("gemini", gcfg.Model)...).With(
		zap.Int("ai_retry_attempts", gcfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	explainer := gemini.NewExplainer(generator, gcfg.MaxLogLength, logger.WithFields(log, logger.AIFields("gemini", generator.Model())...))
	explainer.SetPromptOverrides(gemini.PromptOverrides{
		Focus:            cfg.Focus,
		UserInstructions: cfg.Instructions,
	})

	return explainer, nil
}
