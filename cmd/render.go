package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/suderio/loot-table/internal/engine"
	"github.com/suderio/loot-table/internal/persistence"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#874BFD"))

	itemBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 2)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F25D94"))
)

// renderItem draws one generated item. Empty values are left out unless all is set.
func renderItem(rec *persistence.Record, all bool) string {
	width := 0
	for _, v := range rec.Values {
		if len(v.Name) > width {
			width = len(v.Name)
		}
	}

	var lines []string
	for _, v := range rec.Values {
		text := formatValue(v.Value)
		if text == "" && !all {
			continue
		}
		lines = append(lines, nameStyle.Render(fmt.Sprintf("%-*s", width, v.Name))+"  "+text)
	}
	if len(lines) == 0 {
		lines = append(lines, infoStyle.Render("(nothing rolled)"))
	}

	header := titleStyle.Render(rec.Table) + " " +
		infoStyle.Render(fmt.Sprintf("%s  %d rolls", shortID(rec.ID), rec.Rolls))

	out := []string{header, itemBoxStyle.Render(strings.Join(lines, "\n"))}
	for _, w := range rec.Warnings {
		out = append(out, warnStyle.Render("! "+w.String()))
	}
	return strings.Join(out, "\n")
}

// formatValue prints numbers and strings as is and lists as "Tag: value"
// entries. Values read back from the log arrive as generic JSON.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		if val == 0 {
			return ""
		}
		return fmt.Sprint(val)
	case float64:
		if val == 0 {
			return ""
		}
		return fmt.Sprint(int(val))
	case []engine.Entry:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = e.Tag + ": " + e.Value
		}
		return strings.Join(parts, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, raw := range val {
			if m, ok := raw.(map[string]any); ok {
				parts = append(parts, fmt.Sprintf("%v: %v", m["tag"], m["value"]))
			}
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
