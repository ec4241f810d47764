package taxonomy

import (
	"bytes"
	"errors"
	"maps"
	"slices"
	"strings"
	"testing"
)

type rowCollector struct {
	rows []Row
}

func (c *rowCollector) WriteRow(r Row) error {
	c.rows = append(c.rows, r)
	return nil
}

type failingWriter struct{ err error }

func (f failingWriter) WriteRow(Row) error { return f.err }

func chain(ids ...string) *Node {
	root := NewNode(ids[0])
	cur := root
	for _, id := range ids[1:] {
		n := NewNode(id)
		cur.AddChild(n)
		cur = n
	}
	return root
}

func TestWriteLineage(t *testing.T) {
	root := &Node{ID: "1", Rank: "root"}
	a := &Node{ID: "10", Rank: "family", Name: "Hominidae"}
	b := &Node{ID: "20", Rank: "genus"}
	c := &Node{ID: "30", Rank: "species", Name: "Homo sapiens"}
	root.AddChild(a)
	a.AddChild(b)
	b.AddChild(c)

	var out rowCollector
	if err := WriteLineages(root, &out, []string{"family", "genus", "species"}); err != nil {
		t.Fatalf("WriteLineages() error: %v", err)
	}

	var ids []string
	for _, r := range out.rows {
		ids = append(ids, r.TaxID)
	}
	if !slices.Equal(ids, []string{"10", "20", "30"}) {
		t.Fatalf("rows for %v, want [10 20 30]", ids)
	}

	want := map[string]string{"family": "Hominidae", "genus": "20", "species": "Homo sapiens"}
	if got := out.rows[2].Lineage; !maps.Equal(got, want) {
		t.Errorf("lineage of 30 = %v, want %v", got, want)
	}
	if got := out.rows[0].Lineage; !maps.Equal(got, map[string]string{"family": "Hominidae"}) {
		t.Errorf("lineage of 10 = %v", got)
	}
}

func TestWriteLineageSiblingsIsolated(t *testing.T) {
	root := &Node{ID: "1", Rank: NoRank}
	left := &Node{ID: "2", Rank: "genus"}
	right := &Node{ID: "3", Rank: NoRank}
	leaf := &Node{ID: "4", Rank: "species"}
	root.AddChild(left)
	root.AddChild(right)
	right.AddChild(leaf)

	var out rowCollector
	if err := WriteLineages(root, &out, []string{"genus", "species"}); err != nil {
		t.Fatalf("WriteLineages() error: %v", err)
	}
	if len(out.rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(out.rows))
	}
	if _, ok := out.rows[1].Lineage["genus"]; ok {
		t.Errorf("species row leaked sibling genus: %v", out.rows[1].Lineage)
	}
}

func TestWriteLineageError(t *testing.T) {
	sentinel := errors.New("disk full")
	root := &Node{ID: "1", Rank: "genus"}
	err := WriteLineages(root, failingWriter{sentinel}, []string{"genus"})
	if !errors.Is(err, sentinel) {
		t.Errorf("WriteLineages() error = %v, want %v", err, sentinel)
	}
}

func TestWriteTree(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		want  string
	}{
		{name: "zero depth", depth: 0, want: ""},
		{
			name:  "depth two of four",
			depth: 2,
			want: "|--- a \"a\" [no rank]\n" +
				"|    |--- b \"b\" [no rank]\n",
		},
		{
			name:  "unlimited",
			depth: -1,
			want: "|--- a \"a\" [no rank]\n" +
				"|    |--- b \"b\" [no rank]\n" +
				"|    |    |--- c \"c\" [no rank]\n" +
				"|    |    |    |--- d \"d\" [no rank]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := chain("a", "b", "c", "d").WriteTree(&buf, tt.depth, DefaultTreeMarker); err != nil {
				t.Fatalf("WriteTree() error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("WriteTree() =\n%s\nwant\n%s", buf.String(), tt.want)
			}
		})
	}
}

func TestNodeString(t *testing.T) {
	n := &Node{ID: "9606", Rank: "species", Name: "Homo sapiens"}
	if got, want := n.String(), `9606 "Homo sapiens" [species]`; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestPrunePreservesAncestors(t *testing.T) {
	for _, target := range []string{"3", "4", "9", "11", "6"} {
		t.Run(target, func(t *testing.T) {
			tree := buildSample(t)
			path := pathTo(tree.Root, target)
			if path == nil {
				t.Fatalf("no path to %s", target)
			}

			tree.Root.Prune(NewIDSet(target))

			got := subtreeIDs(tree.Root)
			for _, id := range path {
				if !slices.Contains(got, id) {
					t.Errorf("ancestor %s of %s was pruned", id, target)
				}
			}
			// Only the path itself survives: everything else is unrelated.
			if len(got) != len(path) {
				t.Errorf("after prune = %v, want exactly %v", got, path)
			}
		})
	}
}

func TestPruneIdempotent(t *testing.T) {
	keep := NewIDSet("4", "8")

	once := buildSample(t)
	once.Root.Prune(keep)
	var a bytes.Buffer
	_ = once.Root.WriteTree(&a, -1, DefaultTreeMarker)

	twice := buildSample(t)
	twice.Root.Prune(keep)
	twice.Root.Prune(keep)
	var b bytes.Buffer
	_ = twice.Root.WriteTree(&b, -1, DefaultTreeMarker)

	if a.String() != b.String() {
		t.Errorf("pruning twice differs:\n%s\nvs\n%s", a.String(), b.String())
	}
}

func TestPruneNothingKept(t *testing.T) {
	root := chain("a", "b", "c")
	if cut := root.Prune(NewIDSet("zzz")); !cut {
		t.Error("Prune() = false, want root reported as cut")
	}
	if len(root.Children) != 0 {
		t.Errorf("children = %v, want none", root.Children)
	}
}

func TestPruneKeepsOwnIDWithoutDescendants(t *testing.T) {
	root := chain("a", "b", "c")
	root.Prune(NewIDSet("b"))
	if got := subtreeIDs(root); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("after prune = %v, want [a b]", got)
	}
}

func TestPrunedCopyMatchesPrune(t *testing.T) {
	for _, keep := range []IDSet{NewIDSet("3"), NewIDSet("4", "8"), NewIDSet("6"), NewIDSet("1"), NewIDSet("2", "11")} {
		t.Run(strings.Join(keep.Sorted(), ","), func(t *testing.T) {
			tree := buildSample(t)
			cp := tree.Root.PrunedCopy(keep)
			if cp == nil {
				t.Fatal("PrunedCopy() = nil")
			}
			if got := tree.Root.Count(); got != 11 {
				t.Errorf("original Count() = %d, want 11", got)
			}

			pruned := buildSample(t)
			pruned.Root.Prune(keep)
			if got, want := subtreeIDs(cp), subtreeIDs(pruned.Root); !slices.Equal(got, want) {
				t.Errorf("PrunedCopy() = %v, Prune() = %v", got, want)
			}

			cp.Walk(func(n *Node) bool {
				if orig, _ := tree.Lookup(n.ID); orig == n {
					t.Errorf("node %s shared with the original", n.ID)
				}
				return true
			})
		})
	}
}

func TestPrunedCopyNothingKept(t *testing.T) {
	root := chain("a", "b", "c")
	if cp := root.PrunedCopy(NewIDSet("zzz")); cp != nil {
		t.Errorf("PrunedCopy() = %v, want nil", subtreeIDs(cp))
	}
	if got := subtreeIDs(root); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("original = %v after PrunedCopy", got)
	}
}

func TestClone(t *testing.T) {
	tree := buildSample(t)
	cp := tree.Root.Clone()
	cp.Prune(NewIDSet("9"))
	cp.Children[0].Name = "changed"

	if got := tree.Root.Count(); got != 11 {
		t.Errorf("original Count() = %d after pruning clone, want 11", got)
	}
	if n, _ := tree.Lookup("5"); n.Name != "Eukaryota" {
		t.Errorf("original name changed to %q", n.Name)
	}
	if got := cp.Count(); got != 6 {
		t.Errorf("clone Count() = %d, want 6", got)
	}
}

func TestWalkSkip(t *testing.T) {
	tree := buildSample(t)
	var seen []string
	tree.Root.Walk(func(n *Node) bool {
		seen = append(seen, n.ID)
		return n.ID != "2"
	})
	if strings.Join(seen, ",") != "1,2,5,6,7,8,9" {
		t.Errorf("Walk() visited %v", seen)
	}
}

// pathTo returns the ids from root to target inclusive.
func pathTo(n *Node, target string) []string {
	if n.ID == target {
		return []string{n.ID}
	}
	for _, c := range n.Children {
		if p := pathTo(c, target); p != nil {
			return append([]string{n.ID}, p...)
		}
	}
	return nil
}
