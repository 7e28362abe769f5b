package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mrijkeboer/udpas/pkg/conllu"
	"github.com/mrijkeboer/udpas/pkg/diag"
	"github.com/mrijkeboer/udpas/pkg/graph"
	"github.com/mrijkeboer/udpas/pkg/pas"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newBrowseCmd creates the browse command, an interactive viewer for
// annotated sentences.
func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file>",
		Short: "Interactively inspect annotated sentences",
		Long: `Annotate a CoNLL-U treebank and browse the result interactively.

The list shows one row per sentence; selecting a sentence shows its
identified predicates with their diathesis patterns and argument fills.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runBrowse(c.Context(), args[0])
		},
	}
}

// sentenceItem is one annotated sentence in the browser.
type sentenceItem struct {
	id         string
	text       string
	words      int
	predicates []*graph.Node
}

func runBrowse(ctx context.Context, path string) error {
	in, err := openInput([]string{path})
	if err != nil {
		return err
	}
	defer in.Close()

	items, skipped, err := loadSentences(in)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no sentences in %s", path)
	}
	if skipped > 0 {
		printWarning("Skipped %d sentences with structural errors", skipped)
	}

	model := newBrowseModel(items)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}

// loadSentences annotates every sentence, silently skipping broken ones.
func loadSentences(in io.Reader) ([]sentenceItem, int, error) {
	reader := conllu.NewReader(in)
	var items []sentenceItem
	skipped := 0
	for position := 1; ; position++ {
		sent, err := reader.Next()
		if err == io.EOF {
			return items, skipped, nil
		}
		if err != nil {
			if sent == nil {
				return nil, 0, err
			}
			skipped++
			continue
		}
		store, err := conllu.BuildStore(sent, nil)
		if err != nil {
			skipped++
			continue
		}
		pas.Annotate(store, pas.Options{}, diag.Nop{})

		item := sentenceItem{id: sent.SentID(), words: store.Len()}
		if item.id == "" {
			item.id = strconv.Itoa(position)
		}
		var forms []string
		for n := range store.OrderedNodes() {
			if !n.ID.IsMultiword() && !n.ID.IsEmptyNode() {
				forms = append(forms, n.Form)
			}
			if n.PredicateID != "" && n.PredicateID != pas.NoPredicate {
				item.predicates = append(item.predicates, n)
			}
		}
		item.text = strings.Join(forms, " ")
		items = append(items, item)
	}
}

// browseModel is the bubbletea model for the sentence browser.
type browseModel struct {
	items  []sentenceItem
	cursor int
	offset int
	height int
	detail bool // showing the predicate view of the current sentence
}

func newBrowseModel(items []sentenceItem) browseModel {
	return browseModel{items: items, height: 15}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.detail {
				m.detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.detail && m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if !m.detail && m.cursor < len(m.items)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.detail = !m.detail
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	if m.detail {
		return m.detailView()
	}
	return m.listView()
}

func (m browseModel) listView() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Sentences"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ predicates  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.items) {
		end = len(m.items)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		it := m.items[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			it.id,
			strconv.Itoa(it.words),
			strconv.Itoa(len(it.predicates)),
			truncate(it.text, 60),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Sentence", "Words", "Predicates", "Text").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.items))))
	return b.String()
}

func (m browseModel) detailView() string {
	it := m.items[m.cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Predicates of " + it.id))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("  " + it.text))
	b.WriteString("\n\n")

	if len(it.predicates) == 0 {
		b.WriteString(listDimStyle.Render("  no predicates identified"))
		return b.String()
	}

	rows := [][]string{}
	for _, n := range it.predicates {
		rows = append(rows, []string{
			n.ID.String(),
			n.Form,
			n.PredicateID,
			n.ArgumentPattern,
			conllu.FormatArgs(n.Arguments),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Form", "Predicate", "Pattern", "Arguments").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
