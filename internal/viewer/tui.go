package viewer

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spigell/doc-matcher/internal/matcher"
	"github.com/spigell/doc-matcher/internal/notify"
	"github.com/spigell/doc-matcher/internal/render"
)

var (
	spinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))
)

const statusBarHeight = 1

type loadedMsg struct {
	detail *Detail
}

// Model is the interactive job detail view. Quitting cancels the context
// passed to every backend request.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	viewer *Viewer
	job    *matcher.JobDescription

	spinner  spinner.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool

	loading bool
	detail  *Detail

	// The alt screen hides log output, so notifications raised while
	// loading are shown above the sections.
	notes   *notify.Collector
	notices []notify.Notification
}

func NewModel(ctx context.Context, v *Viewer, job *matcher.JobDescription) *Model {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	notes := &notify.Collector{}

	return &Model{
		ctx:    ctx,
		cancel: cancel,
		viewer: &Viewer{
			api:      v.api,
			notifier: notify.Multi{v.notifier, notes},
			logger:   v.logger,
		},
		job:     job,
		spinner: s,
		loading: true,
		notes:   notes,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m *Model) load() tea.Cmd {
	ctx, v, job := m.ctx, m.viewer, m.job
	return func() tea.Msg {
		return loadedMsg{detail: v.Load(ctx, job)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		height := max(m.height-statusBarHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(m.width, height)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = height
		}
		m.viewport.SetContent(m.content())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.notices = nil
			m.viewport.SetContent(m.content())
			return m, tea.Batch(m.spinner.Tick, m.load())
		}

	case loadedMsg:
		if m.ctx.Err() != nil {
			return m, nil
		}
		m.loading = false
		m.detail = msg.detail
		m.notices = m.notes.Drain()
		m.viewport.SetContent(m.content())
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) content() string {
	if m.loading || m.detail == nil {
		return render.DetailView(m.job, nil, nil, true)
	}
	view := render.DetailView(m.detail.Job, m.detail.Matches, m.detail.Workflow, false)
	if len(m.notices) > 0 {
		view = render.Notifications(m.notices) + "\n\n" + view
	}
	return view
}

func (m *Model) View() string {
	if !m.ready {
		return m.spinner.View() + " " + render.LoadingMatches
	}

	status := " ↑/↓ scroll  r reload  q quit"
	if m.loading {
		status = " " + m.spinner.View() + " loading" + status
	}

	return m.viewport.View() + "\n" + statusBarStyle.Width(m.width).Render(status)
}

// Detail returns the last loaded detail, or nil while loading.
func (m *Model) Detail() *Detail {
	if m.loading {
		return nil
	}
	return m.detail
}

// Run shows the interactive detail view until the user quits.
func Run(ctx context.Context, v *Viewer, job *matcher.JobDescription) error {
	m := NewModel(ctx, v, job)
	defer m.cancel()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
