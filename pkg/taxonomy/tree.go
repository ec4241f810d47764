package taxonomy

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	// ErrUnknownTaxon is returned when an id referenced by a name record,
	// a keep set or a lookup is not present in the tree.
	ErrUnknownTaxon = errors.New("unknown taxon")

	// ErrNoRoot is returned by [Build] when no record is its own parent.
	ErrNoRoot = errors.New("no root record")

	// ErrMultipleRoots is returned by [Build] when more than one record is
	// its own parent.
	ErrMultipleRoots = errors.New("multiple root records")

	// ErrUnknownRank is returned by [Node.ExpandNoRank] when the rank a
	// synthesized rank derives from is missing from the rank order.
	ErrUnknownRank = errors.New("unknown rank")
)

// NodeRecord is one line of a node dump: a taxon, its parent and its rank.
// The root record has TaxID == ParentID.
type NodeRecord struct {
	TaxID    string
	ParentID string
	Rank     string
}

// NameRecord assigns a display name to a taxon.
type NameRecord struct {
	TaxID string
	Name  string
}

// Tree is a rooted taxonomy with an id index and an inferred rank order.
//
// The zero value is not usable; use [Build].
type Tree struct {
	// Root is the node whose record named itself as parent.
	Root *Node

	// Ranks lists every distinct rank other than [NoRank], root to leaf.
	Ranks []string

	nodes map[string]*Node
}

// Build assembles a tree from node records and, if names is non-nil, assigns
// names from name records. Every id that appears as a tax id or a parent id
// gets a node; a parent seen before its own record starts as [NoRank] and is
// completed when the record arrives.
func Build(nodes iter.Seq[NodeRecord], names iter.Seq[NameRecord]) (*Tree, error) {
	t := &Tree{nodes: make(map[string]*Node)}

	for rec := range nodes {
		node := t.fetch(rec.TaxID)
		node.Rank = rec.Rank

		if rec.TaxID == rec.ParentID {
			if t.Root != nil && t.Root != node {
				return nil, fmt.Errorf("%w: %s and %s", ErrMultipleRoots, t.Root.ID, node.ID)
			}
			t.Root = node
			continue
		}
		t.fetch(rec.ParentID).AddChild(node)
	}
	if t.Root == nil {
		return nil, ErrNoRoot
	}

	if names != nil {
		for rec := range names {
			node, ok := t.nodes[rec.TaxID]
			if !ok {
				return nil, fmt.Errorf("name %q: %w: %s", rec.Name, ErrUnknownTaxon, rec.TaxID)
			}
			node.Name = rec.Name
		}
	}

	t.Ranks = inferRankOrder(t.Root)
	return t, nil
}

func (t *Tree) fetch(id string) *Node {
	if n, ok := t.nodes[id]; ok {
		return n
	}
	n := NewNode(id)
	t.nodes[id] = n
	return n
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Lookup returns the node with the given id.
func (t *Tree) Lookup(id string) (*Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTaxon, id)
	}
	return n, nil
}

// ExpandRanks gives the root the rank [RootRank], places it first in the
// rank order, and replaces every [NoRank] with the nearest ancestor's rank
// plus suffix. A tree that was already expanded is left as it is.
func (t *Tree) ExpandRanks(suffix string) error {
	t.Root.Rank = RootRank
	if !slices.Contains(t.Ranks, RootRank) {
		t.Ranks = slices.Insert(t.Ranks, 0, RootRank)
	}
	return t.Root.ExpandNoRank(suffix, &t.Ranks, RootRank)
}

// OutputRanks returns the ranks present under root in rank order. It is the
// column order for lineage output: no rank absent from the subtree appears.
func (t *Tree) OutputRanks(root *Node) []string {
	present := root.CollectRanks()
	out := make([]string, 0, len(present))
	for _, r := range t.Ranks {
		if _, ok := present[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

// WriteLineages writes a row for every node under root whose rank is in
// ranks. It is the top-level entry to [Node.WriteLineage].
func WriteLineages(root *Node, w RowWriter, ranks []string) error {
	recognized := make(map[string]bool, len(ranks))
	for _, r := range ranks {
		recognized[r] = true
	}
	return root.WriteLineage(w, recognized, nil)
}
