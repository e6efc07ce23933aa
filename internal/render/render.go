// Package render turns backend entities into terminal cards, or json/yaml
// for scripting.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

const (
	FormatCards = "cards"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the accepted values of the output setting.
var Formats = []string{FormatCards, FormatJSON, FormatYAML}

const maxCardSkills = 4

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Width(14)

	badgeStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Encode writes v as json or yaml.
func Encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// Skills renders at most four skills followed by "+N more".
func Skills(skills []string) string {
	if len(skills) == 0 {
		return ""
	}

	shown := skills
	if len(shown) > maxCardSkills {
		shown = shown[:maxCardSkills]
	}

	badges := make([]string, 0, len(shown)+1)
	for _, skill := range shown {
		badges = append(badges, badgeStyle.Render(skill))
	}

	if rest := len(skills) - len(shown); rest > 0 {
		badges = append(badges, subtitleStyle.Render(fmt.Sprintf("+%d more", rest)))
	}

	return strings.Join(badges, " ")
}

type fieldWriter struct {
	b strings.Builder
}

func (f *fieldWriter) add(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	f.b.WriteString(labelStyle.Render(label))
	f.b.WriteString(value)
	f.b.WriteByte('\n')
}

func (f *fieldWriter) String() string {
	return strings.TrimRight(f.b.String(), "\n")
}

func card(lines ...string) string {
	return cardStyle.Render(strings.Join(nonEmpty(lines), "\n"))
}

func nonEmpty(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// List renders cards one after another, or the empty message.
func List[T any](items []T, cardFn func(T) string, empty string) string {
	if len(items) == 0 {
		return hintStyle.Render(empty)
	}

	cards := make([]string, 0, len(items))
	for _, item := range items {
		cards = append(cards, cardFn(item))
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}
