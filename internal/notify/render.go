package notify

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	toastBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	levelColors = map[Level]lipgloss.Color{
		LevelSuccess: lipgloss.Color("#8BC34A"),
		LevelInfo:    lipgloss.Color("#4FC3F7"),
		LevelWarning: lipgloss.Color("#FFB300"),
		LevelError:   lipgloss.Color("#E57373"),
	}

	levelIcons = map[Level]string{
		LevelSuccess: "✓",
		LevelInfo:    "i",
		LevelWarning: "!",
		LevelError:   "✗",
	}

	muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E"))
)

// Render formats t for a terminal.
func (t Toast) Render() string {
	color, ok := levelColors[t.Level]
	if !ok {
		color = levelColors[LevelInfo]
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(color).
		Render(levelIcons[t.Level] + " " + t.Title)

	lines := []string{title}
	if len(t.Fields) > 0 {
		for _, f := range t.Fields {
			lines = append(lines, muted.Render("  • "+f.Message))
		}
	} else if t.Message != "" {
		lines = append(lines, muted.Render(t.Message))
	}

	return toastBox.BorderForeground(color).Render(strings.Join(lines, "\n"))
}

// Print writes the rendered toast followed by a newline.
func Print(w io.Writer, t Toast) {
	_, _ = io.WriteString(w, t.Render()+"\n")
}
