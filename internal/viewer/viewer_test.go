package viewer

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spigell/doc-matcher/internal/matcher"
	"github.com/spigell/doc-matcher/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubAPI struct {
	mu sync.Mutex

	top       [][]*matcher.Match
	topErr    error
	allErr    error
	statuses  []*matcher.WorkflowStatus
	statusErr error

	topCalls int
	allCalls int
}

func (s *stubAPI) TopMatches(ctx context.Context, _ int) ([]*matcher.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	call := s.topCalls
	s.topCalls++
	if s.topErr != nil {
		return nil, s.topErr
	}
	if call < len(s.top) {
		return s.top[call], nil
	}
	return nil, nil
}

func (s *stubAPI) AllMatches(ctx context.Context, _ int) ([]*matcher.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.allCalls++
	return nil, s.allErr
}

func (s *stubAPI) WorkflowStatuses(ctx context.Context) ([]*matcher.WorkflowStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.statuses, s.statusErr
}

var job = &matcher.JobDescription{ID: 42, Title: "Go Developer"}

func workflowFor(id string) *matcher.WorkflowStatus {
	return &matcher.WorkflowStatus{JobDescriptionID: id, Steps: map[string]bool{matcher.StepJDParsed: true}}
}

func match(rank int) *matcher.Match {
	return &matcher.Match{Rank: rank, SimilarityScore: 0.8, Profile: &matcher.ConsultantProfile{Name: "Ada"}}
}

func TestLoadWithExistingMatches(t *testing.T) {
	api := &stubAPI{
		top:      [][]*matcher.Match{{match(1), match(2), match(3)}},
		statuses: []*matcher.WorkflowStatus{workflowFor("7"), workflowFor("42")},
	}
	var notes notify.Collector

	detail := New(api, &notes, zaptest.NewLogger(t)).Load(context.Background(), job)

	require.NoError(t, detail.Err)
	assert.Len(t, detail.Matches, 3)
	require.NotNil(t, detail.Workflow)
	assert.Equal(t, "42", detail.Workflow.JobDescriptionID)
	assert.False(t, detail.Generated)
	assert.Equal(t, 1, api.topCalls)
	assert.Equal(t, 0, api.allCalls)
	assert.Empty(t, notes.Drain())
}

func TestLoadGeneratesOnceWhenEmpty(t *testing.T) {
	api := &stubAPI{
		top:      [][]*matcher.Match{{}, {match(1)}},
		statuses: []*matcher.WorkflowStatus{workflowFor("42")},
	}
	var notes notify.Collector

	detail := New(api, &notes, zaptest.NewLogger(t)).Load(context.Background(), job)

	require.NoError(t, detail.Err)
	assert.True(t, detail.Generated)
	assert.Len(t, detail.Matches, 1)
	assert.Equal(t, 1, api.allCalls, "generation must be requested exactly once")
	assert.Equal(t, 2, api.topCalls, "top matches are fetched once more after generation")
	assert.Empty(t, notes.Drain())
}

func TestLoadStillEmptyAfterGeneration(t *testing.T) {
	api := &stubAPI{}
	detail := New(api, nil, nil).Load(context.Background(), job)

	require.NoError(t, detail.Err)
	assert.Empty(t, detail.Matches)
	assert.Nil(t, detail.Workflow)
	assert.Equal(t, 1, api.allCalls)
	assert.Equal(t, 2, api.topCalls)
}

func TestLoadFetchFailures(t *testing.T) {
	tests := []struct {
		name string
		api  *stubAPI
	}{
		{name: "top matches", api: &stubAPI{topErr: errors.New("500"), statuses: []*matcher.WorkflowStatus{workflowFor("42")}}},
		{name: "workflow status", api: &stubAPI{top: [][]*matcher.Match{{match(1)}}, statusErr: errors.New("500")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var notes notify.Collector

			detail := New(tt.api, &notes, zaptest.NewLogger(t)).Load(context.Background(), job)

			assert.Error(t, detail.Err)
			assert.Empty(t, detail.Matches)
			assert.Nil(t, detail.Workflow)
			assert.Equal(t, 0, tt.api.allCalls)
			assert.Equal(t, []notify.Notification{{Level: notify.LevelError, Title: "Error", Description: FetchFailedMessage}}, notes.Drain())
		})
	}
}

func TestLoadGenerationFailureKeepsWorkflow(t *testing.T) {
	api := &stubAPI{
		allErr:   errors.New("agents are down"),
		statuses: []*matcher.WorkflowStatus{workflowFor("42")},
	}
	var notes notify.Collector

	detail := New(api, &notes, zaptest.NewLogger(t)).Load(context.Background(), job)

	assert.Error(t, detail.Err)
	assert.Empty(t, detail.Matches)
	assert.NotNil(t, detail.Workflow)
	assert.Equal(t, 1, api.allCalls)
	assert.Equal(t, 1, api.topCalls)
	assert.Equal(t, []notify.Notification{{Level: notify.LevelError, Title: "Error", Description: GenerateFailedMessage}}, notes.Drain())
}

func TestLoadCancelledDoesNotNotify(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var notes notify.Collector
	detail := New(&stubAPI{}, &notes, nil).Load(ctx, job)

	assert.ErrorIs(t, detail.Err, context.Canceled)
	assert.Empty(t, notes.Drain())
}

func TestModelLifecycle(t *testing.T) {
	api := &stubAPI{top: [][]*matcher.Match{{match(1)}}}
	m := NewModel(context.Background(), New(api, nil, nil), job)

	require.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Loading matches...")

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Contains(t, m.View(), "Loading status...")
	assert.Nil(t, m.Detail())

	msg := m.load()()
	m.Update(msg)
	require.NotNil(t, m.Detail())
	assert.Len(t, m.Detail().Matches, 1)
	assert.Contains(t, m.View(), "No workflow status available.")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.ErrorIs(t, m.ctx.Err(), context.Canceled)

	late := loadedMsg{detail: &Detail{Job: job}}
	m.Update(late)
	assert.Len(t, m.Detail().Matches, 1, "updates after quit are ignored")
}

func TestModelShowsLoadFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name string
		api  *stubAPI
		want string
	}{
		{name: "fetch failure", api: &stubAPI{topErr: boom}, want: FetchFailedMessage},
		{name: "generation failure", api: &stubAPI{allErr: boom}, want: GenerateFailedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := &notify.Collector{}
			m := NewModel(context.Background(), New(tt.api, notes, nil), job)
			m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

			m.Update(m.load()())
			require.NotNil(t, m.Detail())

			view := m.View()
			assert.Contains(t, view, tt.want)
			assert.Contains(t, view, "Error")
			assert.Contains(t, view, "No matches found for this job description.")

			drained := notes.Drain()
			require.Len(t, drained, 1, "the caller's notifier still receives the notification")
			assert.Equal(t, tt.want, drained[0].Description)

			m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
			assert.NotContains(t, m.View(), tt.want, "reloading clears old notifications")
		})
	}
}
