package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

func browseTree() *taxonomy.Node {
	root := &taxonomy.Node{ID: "9604", Name: "Hominidae", Rank: "family"}
	homo := &taxonomy.Node{ID: "9605", Name: "Homo", Rank: "genus"}
	homo.AddChild(&taxonomy.Node{ID: "9606", Name: "Homo sapiens", Rank: "species"})
	pan := &taxonomy.Node{ID: "9596", Name: "Pan", Rank: "genus"}
	pan.AddChild(&taxonomy.Node{ID: "9598", Name: "Pan troglodytes", Rank: "species"})
	pan.AddChild(&taxonomy.Node{ID: "9597", Name: "Pan paniscus", Rank: "species"})
	root.AddChild(homo)
	root.AddChild(pan)
	return root
}

func press(m BrowseModel, keys ...tea.KeyMsg) BrowseModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(BrowseModel)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
	keyHome  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")}
)

func TestBrowseNavigation(t *testing.T) {
	m := NewBrowseModel(browseTree())

	if got := m.Selected().ID; got != "9605" {
		t.Fatalf("initial selection = %s, want 9605", got)
	}

	m = press(m, keyDown, keyDown, keyDown)
	if got := m.Selected().ID; got != "9596" {
		t.Errorf("cursor should stop at the last child, got %s", got)
	}

	m = press(m, keyEnter)
	if got := m.Current().ID; got != "9596" {
		t.Fatalf("enter should descend into Pan, at %s", got)
	}
	m = press(m, keyDown)
	if got := m.Selected().ID; got != "9597" {
		t.Errorf("selection in Pan = %s, want 9597", got)
	}

	// Species have no children to descend into.
	m = press(m, keyEnter)
	if got := m.Current().ID; got != "9596" {
		t.Errorf("enter on a leaf moved to %s", got)
	}

	m = press(m, keyBack)
	if got := m.Selected().ID; got != "9596" {
		t.Errorf("back should restore the parent cursor, got %s", got)
	}

	m = press(m, keyUp, keyEnter, keyHome)
	if len(m.Path) != 1 || m.Selected().ID != "9605" {
		t.Errorf("home should reset to the root, path %d selected %s", len(m.Path), m.Selected().ID)
	}
}

func TestBrowseQuit(t *testing.T) {
	m := NewBrowseModel(browseTree())
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		if _, cmd := m.Update(k); cmd == nil {
			t.Errorf("%q should quit", k.String())
		}
	}
}

func TestBrowseScroll(t *testing.T) {
	root := &taxonomy.Node{ID: "1", Rank: "root"}
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		root.AddChild(&taxonomy.Node{ID: id, Name: "genus-" + id, Rank: "genus"})
	}
	m := NewBrowseModel(root)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m = next.(BrowseModel)
	if m.Height != 5 {
		t.Fatalf("height = %d, want 5", m.Height)
	}

	m = press(m, keyDown, keyDown, keyDown, keyDown, keyDown, keyDown)
	if m.Offset != 2 {
		t.Errorf("offset = %d, want 2 to keep the cursor visible", m.Offset)
	}
	view := m.View()
	if strings.Contains(view, "genus-a") || !strings.Contains(view, "genus-g") || !strings.Contains(view, "[7/8]") {
		t.Errorf("view not scrolled:\n%s", view)
	}
}

func TestBrowseView(t *testing.T) {
	m := press(NewBrowseModel(browseTree()), keyEnter)
	view := m.View()
	for _, want := range []string{"Hominidae", "Homo", "Homo sapiens", "9606", "[1/1]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	leaf := NewBrowseModel(&taxonomy.Node{ID: "9606", Rank: "species"})
	if !strings.Contains(leaf.View(), "no children") {
		t.Error("leaf view should say it has no children")
	}
	if leaf.Selected() != nil {
		t.Error("leaf has no selection")
	}
}
