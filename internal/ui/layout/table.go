package layout

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/EthanGF7/SkillsTracker/internal/ui/theme"
)

// NewTable returns a table with the house border and header styles. Columns
// listed in numeric are right-aligned.
func NewTable(headers []string, numeric ...int) *table.Table {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}
	return table.New().
		Headers(headers...).
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if right[col] {
				s = s.Align(lipgloss.Right)
			}
			if row == table.HeaderRow {
				return s.Inherit(theme.Label)
			}
			return s
		})
}

// Mark renders a success flag as a check or a cross.
func Mark(ok bool) string {
	if ok {
		return theme.OK.Render("✓")
	}
	return theme.Failed.Render("✗")
}
