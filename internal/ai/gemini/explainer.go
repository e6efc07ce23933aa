package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/doc-matcher/internal/ai"
	"github.com/spigell/doc-matcher/internal/logger"
	"github.com/spigell/doc-matcher/internal/matcher"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	systemInstruction = "You are a recruiting assistant. You only answer with JSON matching the requested schema."

	defaultMaxLogLength     = 200
	maxUserInstructionRunes = 500
	maxFocusRunes           = 200
	noneValue               = "none"
)

// PromptOverrides lets recruiters steer the explanation without changing
// the output schema.
type PromptOverrides struct {
	Focus            string
	UserInstructions string
}

type Explainer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
	overrides PromptOverrides
}

func NewExplainer(generator contentGenerator, maxLogLength int, log *zap.Logger) *Explainer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Explainer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

func (e *Explainer) SetPromptOverrides(o PromptOverrides) {
	e.overrides = o
}

func (e *Explainer) Explain(ctx context.Context, job *matcher.JobDescription, consultant *matcher.ConsultantProfile) (*ai.Explanation, error) {
	if job == nil {
		return nil, fmt.Errorf("job description is required")
	}
	if consultant == nil {
		return nil, fmt.Errorf("consultant profile is required")
	}

	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}

	consultantJSON, err := json.MarshalIndent(consultant, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal consultant payload: %w", err)
	}

	prompt := buildPrompt(string(jobJSON), string(consultantJSON), e.overrides)

	ids := []zap.Field{
		zap.Int("job_id", job.ID),
		zap.Int("consultant_id", consultant.ID),
	}

	e.logger.Debug("gemini generate content request", append(ids,
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)...)

	raw, err := e.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini generate content response", append(ids,
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)...)

	explanation, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	explanation.Raw = raw
	return explanation, nil
}

func buildPrompt(jobJSON, consultantJSON string, o PromptOverrides) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job:\n{{JOB_JSON}}\n\nConsultant:\n{{CONSULTANT_JSON}}\n\nJSON Response:"
	}

	replacer := strings.NewReplacer(
		"{{FOCUS}}", singleLine(o.Focus, maxFocusRunes),
		"{{USER_INSTRUCTIONS}}", instructionsBlock(o.UserInstructions),
		"{{JOB_JSON}}", jobJSON,
		"{{CONSULTANT_JSON}}", consultantJSON,
	)

	return replacer.Replace(template)
}

// neutralize keeps user text from posing as a prompt section header.
func neutralize(s string) string {
	return strings.NewReplacer("[", "(", "]", ")").Replace(s)
}

func singleLine(s string, limit int) string {
	s = strings.Join(strings.Fields(neutralize(s)), " ")
	if s == "" {
		return noneValue
	}
	return truncateRunes(s, limit)
}

func instructionsBlock(s string) string {
	s = truncateRunes(strings.TrimSpace(neutralize(s)), maxUserInstructionRunes)

	lines := make([]string, 0)
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, "  - "+line)
		}
	}

	if len(lines) == 0 {
		return "  - " + noneValue
	}

	return strings.Join(lines, "\n")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func parseResponse(raw string) (*ai.Explanation, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		score = 0
	}
	// Some models answer in percent despite the schema.
	if score > 1 && score <= 100 {
		score /= 100
	}

	summary := coerceString(data["summary"])
	if summary == "" {
		summary = coerceString(data["reason"])
	}

	return &ai.Explanation{
		Fit:       coerceBool(data["fit"]),
		Score:     score,
		Summary:   summary,
		Strengths: coerceStrings(data["strengths"]),
		Gaps:      coerceStrings(data["gaps"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStrings(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}
		}
	}
	return nil
}
