package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spigell/doc-matcher/internal/listing"
	"github.com/spigell/doc-matcher/internal/matcher"
)

const (
	LoadingMatches = "Loading matches..."
	LoadingStatus  = "Loading status..."
	NoMatches      = "No matches found for this job description."
	NoWorkflow     = "No workflow status available."

	NoJobs        = "No job descriptions found."
	NoConsultants = "No consultants found."
)

var (
	excellentScore = lipgloss.Color("34")
	goodScore      = lipgloss.Color("33")
	fairScore      = lipgloss.Color("178")
)

// ScoreColor is green from 90%, blue from 75% and yellow below.
func ScoreColor(percent int) lipgloss.Color {
	switch {
	case percent >= 90:
		return excellentScore
	case percent >= 75:
		return goodScore
	default:
		return fairScore
	}
}

func JobCard(job *matcher.JobDescription) string {
	fields := &fieldWriter{}
	fields.add("Department", job.Department)
	fields.add("Location", job.Location)
	fields.add("Experience", job.Experience)
	fields.add("Status", job.Status)
	fields.add("Created", job.CreatedAt)

	return card(
		titleStyle.Render(fmt.Sprintf("#%d %s", job.ID, job.Title)),
		fields.String(),
		Skills(job.Skills),
	)
}

// JobDetail is the full job description including its text.
func JobDetail(job *matcher.JobDescription) string {
	fields := &fieldWriter{}
	fields.add("Department", job.Department)
	fields.add("Location", job.Location)
	fields.add("Experience", job.Experience)
	fields.add("Status", job.Status)
	fields.add("Created", job.CreatedAt)
	fields.add("Skills", strings.Join(job.Skills, ", "))

	return card(
		titleStyle.Render(fmt.Sprintf("#%d %s", job.ID, job.Title)),
		fields.String(),
		"",
		job.Description,
	)
}

func ConsultantCard(p *matcher.ConsultantProfile) string {
	fields := &fieldWriter{}
	fields.add("Email", p.Email)
	fields.add("Phone", p.Phone)
	fields.add("Location", p.Location)
	if p.Experience > 0 {
		fields.add("Experience", strconv.Itoa(p.Experience)+" years")
	}
	fields.add("Availability", string(p.Availability))
	fields.add("Project", p.Project)

	return card(
		titleStyle.Render(fmt.Sprintf("#%d %s", p.ID, p.Name)),
		fields.String(),
		Skills(p.Skills),
	)
}

func MatchCard(m *matcher.Match) string {
	percent := m.Percent()
	score := lipgloss.NewStyle().Bold(true).Foreground(ScoreColor(percent)).Render(fmt.Sprintf("%d%% match", percent))

	name := "Unknown consultant"
	var details, skills string
	if c := m.Candidate(); c != nil {
		name = c.Name
		details = subtitleStyle.Render(strings.Join(nonEmpty([]string{c.Email, c.Location, string(c.Availability)}), " · "))
		skills = Skills(c.Skills)
	}

	header := titleStyle.Render(fmt.Sprintf("#%d %s", m.Rank, name)) + "  " + score

	return card(header, details, skills)
}

// MatchesSection is the matches part of the job detail view.
func MatchesSection(matches []*matcher.Match, loading bool) string {
	title := sectionStyle.Render("Top matches")
	if loading {
		return title + "\n" + hintStyle.Render(LoadingMatches)
	}
	return title + "\n" + List(matches, MatchCard, NoMatches)
}

// WorkflowSection lists workflow steps with a check mark for the done ones.
func WorkflowSection(w *matcher.WorkflowStatus, loading bool) string {
	title := sectionStyle.Render("Workflow status")
	if loading {
		return title + "\n" + hintStyle.Render(LoadingStatus)
	}
	if w == nil {
		return title + "\n" + hintStyle.Render(NoWorkflow)
	}

	steps := w.OrderedSteps()
	lines := make([]string, 0, len(steps)+1)
	if w.Status != "" {
		lines = append(lines, subtitleStyle.Render("status: "+w.Status))
	}
	for _, step := range steps {
		if step.Done {
			lines = append(lines, doneStyle.Render("✓ "+step.Label))
		} else {
			lines = append(lines, pendingStyle.Render("○ "+step.Label))
		}
	}

	if len(lines) == 0 {
		return title + "\n" + hintStyle.Render(NoWorkflow)
	}

	return title + "\n" + strings.Join(lines, "\n")
}

// DetailView is the job with its matches and workflow status.
func DetailView(job *matcher.JobDescription, matches []*matcher.Match, workflow *matcher.WorkflowStatus, loading bool) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		JobDetail(job),
		MatchesSection(matches, loading),
		WorkflowSection(workflow, loading),
	)
}

func StatsCard(stats listing.Stats) string {
	fields := &fieldWriter{}
	fields.add("Jobs", strconv.Itoa(stats.TotalJobs))
	fields.add("Pending", strconv.Itoa(stats.PendingJobs))
	fields.add("Consultants", strconv.Itoa(stats.TotalConsultants))
	fields.add("Available", strconv.Itoa(stats.AvailableConsultants))

	return card(titleStyle.Render("Dashboard"), fields.String())
}
