// Package termview prints a questionnaire page as three side-by-side terminal
// columns for support staff.
package termview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"driver_checklist_app/internal/questionnaire"
)

var (
	brandPrimary = lipgloss.Color("#7C3AED")
	brandWarning = lipgloss.Color("#F59E0B")
	brandError   = lipgloss.Color("#EF4444")
	textMuted    = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true)

	labelStyle = lipgloss.NewStyle().Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	warningStyle = lipgloss.NewStyle().
			Foreground(brandWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(brandError)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandPrimary).
			Padding(0, 1)
)

const minColumnWidth = 24

// Render lays the page out within width terminal cells.
func Render(page questionnaire.Page, width int) string {
	colWidth := width/3 - 4
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}
	col := columnStyle.Width(colWidth)

	var b strings.Builder
	b.WriteString(titleStyle.Render(page.ChecklistID))
	b.WriteString(dimStyle.Render(" [" + string(page.State) + "]"))
	b.WriteString("\n")
	for _, n := range page.Notices {
		style := dimStyle
		if n.Kind == "warning" {
			style = warningStyle
		}
		b.WriteString(style.Render(n.Text))
		b.WriteString("\n")
	}

	first := append(append([]questionnaire.Field(nil), page.Header...), page.Footer...)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		col.Render(fields(first)),
		col.Render(fields(page.Left)),
		col.Render(fields(page.Right)),
	))
	b.WriteString("\n")

	if !page.Submit.Hidden {
		b.WriteString(titleStyle.Render("[ " + page.Submit.Label + " ]"))
		b.WriteString("\n")
	}
	return b.String()
}

func fields(list []questionnaire.Field) string {
	blocks := make([]string, 0, len(list))
	for _, f := range list {
		blocks = append(blocks, field(f))
	}
	return strings.Join(blocks, "\n\n")
}

func field(f questionnaire.Field) string {
	label := f.Label
	if f.Required {
		label += " *"
	}
	if f.Disabled {
		label += dimStyle.Render(" (locked)")
	}
	lines := []string{labelStyle.Render(label)}

	if len(f.Options) > 0 {
		for _, o := range f.Options {
			mark := "( )"
			if o.Selected {
				mark = "(•)"
			}
			lines = append(lines, mark+" "+o.Label)
		}
	} else {
		value := f.Value
		if value == "" {
			value = dimStyle.Render(orDash(f.Placeholder))
		}
		lines = append(lines, value)
	}
	if f.Error != "" {
		lines = append(lines, errorStyle.Render(f.Error))
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
