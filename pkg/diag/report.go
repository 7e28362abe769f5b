package diag

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	reportTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	reportHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	reportBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	reportNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
)

// ReportOptions controls frequency table rendering.
type ReportOptions struct {
	// Top limits each table to its N most frequent keys; 0 means all.
	Top int
}

// Report renders the sink's frequency tables as bordered text tables, each
// sorted by count descending with the key as tiebreaker. Empty tables are
// omitted.
func Report(m *Memory, opts ReportOptions) string {
	var out strings.Builder
	for _, name := range m.Tables() {
		counts := m.Table(name)
		if len(counts) == 0 {
			continue
		}
		out.WriteString(renderTable(name, counts, opts.Top))
		out.WriteString("\n")
	}
	return out.String()
}

type entry struct {
	key   string
	count int64
}

func renderTable(name string, counts map[string]int64, top int) string {
	entries := make([]entry, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, entry{key: k, count: c})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if a.count != b.count {
			if a.count > b.count {
				return -1
			}
			return 1
		}
		return strings.Compare(a.key, b.key)
	})
	if top > 0 && len(entries) > top {
		entries = entries[:top]
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.key, strconv.FormatInt(e.count, 10)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(reportBorder).
		Headers("KEY", "COUNT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return reportHeader
			}
			if col == 1 {
				return reportNumber.PaddingLeft(1).PaddingRight(1)
			}
			return lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
		})

	return fmt.Sprintf("%s\n%s\n", reportTitle.Render(name), t.Render())
}
