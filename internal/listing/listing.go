// Package listing narrows job description and consultant lists with a
// sequence of named filter steps.
package listing

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Filter is a single step applied to a list of T.
type Filter[T any] interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, items []T) ([]T, Step, error)
}

// Step describes the result of executing a filter step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Run executes the enabled steps in order. The input slice is not modified.
func Run[T any](ctx context.Context, logger *zap.Logger, steps []Filter[T], items []T) ([]T, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	current := append([]T(nil), items...)
	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		current = next
	}

	return current, nil
}

// Describe returns status entries for the provided filters.
func Describe[T any](steps []Filter[T]) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{Name: step.Name(), Enabled: step.IsEnabled()})
	}
	return statuses
}

// keep applies a predicate and reports the step numbers.
func keep[T any](items []T, pred func(T) bool) ([]T, Step) {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			kept = append(kept, item)
		}
	}
	return kept, Step{Initial: len(items), Dropped: len(items) - len(kept), Left: len(kept)}
}
