package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	crumbStyle      = lipgloss.NewStyle().Foreground(colorGray)
	crumbLastStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	leafStyle       = lipgloss.NewStyle().Foreground(colorGray)
	branchStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	currentRowStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
)

// =============================================================================
// BrowseModel - Interactive tree navigation
// =============================================================================

// BrowseModel is the bubbletea model for walking a taxonomy one level at a
// time. The screen lists the children of the current taxon; entering a
// child descends, going back restores the cursor the parent had.
type BrowseModel struct {
	// Path runs from the browse root to the taxon whose children are shown.
	Path []*taxonomy.Node
	// Cursors holds the cursor of every level in Path.
	Cursors []int
	Height  int
	Offset  int
}

// NewBrowseModel starts browsing at root.
func NewBrowseModel(root *taxonomy.Node) BrowseModel {
	return BrowseModel{
		Path:    []*taxonomy.Node{root},
		Cursors: []int{0},
		Height:  15,
	}
}

// Current returns the taxon whose children are listed.
func (m BrowseModel) Current() *taxonomy.Node {
	return m.Path[len(m.Path)-1]
}

// Selected returns the child under the cursor, or nil for a leaf.
func (m BrowseModel) Selected() *taxonomy.Node {
	children := m.Current().Children
	if len(children) == 0 {
		return nil
	}
	return children[m.cursor()]
}

func (m BrowseModel) cursor() int {
	return m.Cursors[len(m.Cursors)-1]
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m = m.move(-1)
		case "down", "j":
			m = m.move(1)
		case "pgup":
			m = m.move(-m.Height)
		case "pgdown":
			m = m.move(m.Height)
		case "enter", "right", "l":
			m = m.descend()
		case "backspace", "left", "h":
			m = m.ascend()
		case "home", "g":
			m.Path = m.Path[:1]
			m.Cursors = []int{0}
			m.Offset = 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m = m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped to the child list, and scrolls
// the window to keep it visible.
func (m BrowseModel) move(delta int) BrowseModel {
	n := len(m.Current().Children)
	if n == 0 {
		return m
	}
	cur := min(max(m.cursor()+delta, 0), n-1)
	m.Cursors = append(m.Cursors[:len(m.Cursors)-1:len(m.Cursors)-1], cur)
	if cur < m.Offset {
		m.Offset = cur
	}
	if cur >= m.Offset+m.Height {
		m.Offset = cur - m.Height + 1
	}
	return m
}

func (m BrowseModel) descend() BrowseModel {
	sel := m.Selected()
	if sel == nil || len(sel.Children) == 0 {
		return m
	}
	m.Path = append(m.Path[:len(m.Path):len(m.Path)], sel)
	m.Cursors = append(m.Cursors[:len(m.Cursors):len(m.Cursors)], 0)
	m.Offset = 0
	return m
}

func (m BrowseModel) ascend() BrowseModel {
	if len(m.Path) == 1 {
		return m
	}
	m.Path = m.Path[:len(m.Path)-1]
	m.Cursors = m.Cursors[:len(m.Cursors)-1]
	m.Offset = max(m.cursor()-m.Height+1, 0)
	return m
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Browse Taxonomy"))
	b.WriteString("\n")
	b.WriteString(m.breadcrumb())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  ← back  g top  q quit"))
	b.WriteString("\n\n")

	children := m.Current().Children
	if len(children) == 0 {
		b.WriteString(listDimStyle.Render("  (no children)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(children))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		child := children[i]
		cursor := "  "
		if i == m.cursor() {
			cursor = "▸ "
		}
		sub := "—"
		if len(child.Children) > 0 {
			sub = strconv.Itoa(len(child.Children))
		}
		rows = append(rows, []string{cursor, child.DisplayName(), child.Rank, child.ID, sub})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Rank", "Tax ID", "Children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(children) {
				return lipgloss.NewStyle()
			}
			if idx == m.cursor() {
				return currentRowStyle
			}
			if col == 2 {
				return StyleRank
			}
			if len(children[idx].Children) == 0 {
				return leafStyle
			}
			return branchStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor()+1, len(children))))

	return b.String()
}

// breadcrumb renders the path as "root › Eukaryota › Metazoa".
func (m BrowseModel) breadcrumb() string {
	parts := make([]string, len(m.Path))
	for i, n := range m.Path {
		if i == len(m.Path)-1 {
			parts[i] = crumbLastStyle.Render(n.DisplayName()) + " " + StyleRank.Render("["+n.Rank+"]")
			continue
		}
		parts[i] = crumbStyle.Render(n.DisplayName())
	}
	return strings.Join(parts, listDimStyle.Render(" › "))
}
