package taxonomy

import (
	"fmt"
	"io"
	"maps"
	"slices"
)

// NoRank marks a node whose rank is unknown or unassigned.
const NoRank = "no rank"

// RootRank is the rank given to the root by [Tree.ExpandRanks].
const RootRank = "root"

// DefaultTreeMarker prefixes the top-level line written by [Node.WriteTree].
const DefaultTreeMarker = "|--- "

const treeIndent = "|    "

// Node is a single taxon. It owns its children.
type Node struct {
	ID       string
	Rank     string
	Name     string
	Children []*Node
}

// NewNode returns a node with the given id and rank [NoRank].
func NewNode(id string) *Node {
	return &Node{ID: id, Rank: NoRank}
}

// AddChild appends child. Duplicate edges are not detected.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// DisplayName returns the name if set, otherwise the id.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// String formats the node as `id "name" [rank]`.
func (n *Node) String() string {
	return fmt.Sprintf("%s \"%s\" [%s]", n.ID, n.DisplayName(), n.Rank)
}

// Walk calls fn for n and every descendant in pre-order. Returning false
// from fn skips that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool {
		total++
		return true
	})
	return total
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	cp := &Node{ID: n.ID, Rank: n.Rank, Name: n.Name}
	if len(n.Children) > 0 {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = c.Clone()
		}
	}
	return cp
}

// CollectRanks returns the set of ranks present in the subtree, n included.
func (n *Node) CollectRanks() map[string]struct{} {
	ranks := make(map[string]struct{})
	n.collectRanks(ranks)
	return ranks
}

func (n *Node) collectRanks(ranks map[string]struct{}) {
	ranks[n.Rank] = struct{}{}
	for _, c := range n.Children {
		c.collectRanks(ranks)
	}
}

// Prune removes every branch below n that contains no id from keep. It
// reports whether n itself should be cut: n's id is not kept and none of its
// children survived. Children are modified in place.
func (n *Node) Prune(keep IDSet) bool {
	cut := !keep.Has(n.ID)
	survivors := n.Children[:0]
	for _, c := range n.Children {
		if c.Prune(keep) {
			continue
		}
		survivors = append(survivors, c)
		cut = false
	}
	clear(n.Children[len(survivors):])
	n.Children = survivors
	return cut
}

// PrunedCopy returns a copy of the branches below n that lead to an id in
// keep, or nil when there are none. Only nodes that survive are copied and n
// is not modified.
func (n *Node) PrunedCopy(keep IDSet) *Node {
	var children []*Node
	for _, c := range n.Children {
		if cp := c.PrunedCopy(keep); cp != nil {
			children = append(children, cp)
		}
	}
	if children == nil && !keep.Has(n.ID) {
		return nil
	}
	return &Node{ID: n.ID, Rank: n.Rank, Name: n.Name, Children: children}
}

// ExpandNoRank assigns parentRank+suffix to every [NoRank] node in the
// subtree. A newly synthesized rank is inserted into ranks directly after
// the rank it was derived from, so it nests between its parent rank and the
// next real rank.
func (n *Node) ExpandNoRank(suffix string, ranks *[]string, parentRank string) error {
	if n.Rank == NoRank {
		n.Rank = parentRank + suffix
		if !slices.Contains(*ranks, n.Rank) {
			i := slices.Index(*ranks, parentRank)
			if i < 0 {
				return fmt.Errorf("%w: %q", ErrUnknownRank, parentRank)
			}
			*ranks = slices.Insert(*ranks, i+1, n.Rank)
		}
	}
	for _, c := range n.Children {
		if err := c.ExpandNoRank(suffix, ranks, n.Rank); err != nil {
			return err
		}
	}
	return nil
}

// Row is one flattened lineage: the node and the name-or-id of its nearest
// ancestor (itself included) at each recognized rank.
type Row struct {
	TaxID   string
	Name    string
	Rank    string
	Lineage map[string]string
}

// RowWriter receives lineage rows.
type RowWriter interface {
	WriteRow(Row) error
}

// WriteLineage emits one row for every node in the subtree whose rank is in
// recognized. ancestors holds the lineage inherited from above n and is not
// modified; each child receives its own copy so siblings never see each
// other's entries.
func (n *Node) WriteLineage(w RowWriter, recognized map[string]bool, ancestors map[string]string) error {
	lineage := maps.Clone(ancestors)
	if lineage == nil {
		lineage = make(map[string]string)
	}
	if recognized[n.Rank] {
		lineage[n.Rank] = n.DisplayName()
		row := Row{TaxID: n.ID, Name: n.Name, Rank: n.Rank, Lineage: maps.Clone(lineage)}
		if err := w.WriteRow(row); err != nil {
			return fmt.Errorf("write lineage %s: %w", n.ID, err)
		}
	}
	for _, c := range n.Children {
		if err := c.WriteLineage(w, recognized, lineage); err != nil {
			return err
		}
	}
	return nil
}

// WriteTree writes n and its descendants as indented text, one node per
// line. depth limits the number of levels written; 0 writes nothing and a
// negative depth is unlimited.
func (n *Node) WriteTree(w io.Writer, depth int, prefix string) error {
	if depth == 0 {
		return nil
	}
	if _, err := io.WriteString(w, prefix+n.String()+"\n"); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.WriteTree(w, depth-1, treeIndent+prefix); err != nil {
			return err
		}
	}
	return nil
}
