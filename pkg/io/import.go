package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

// ErrInvalidGraph is returned for edges that do not describe a tree.
var ErrInvalidGraph = errors.New("invalid taxonomy graph")

// ReadJSON decodes a document written by [WriteJSON] and assembles it into
// a tree. The rank order is inferred from the topology, not read from the
// document.
//
// ReadJSON returns an error if the JSON is malformed, a node id repeats, an
// edge references an unknown node, or a node has more than one parent.
func ReadJSON(r io.Reader) (*taxonomy.Tree, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	seen := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if seen[n.ID] {
			return nil, fmt.Errorf("%w: duplicate node %s", ErrInvalidGraph, n.ID)
		}
		seen[n.ID] = true
	}

	parent := make(map[string]string, len(doc.Edges))
	for _, e := range doc.Edges {
		if !seen[e.From] || !seen[e.To] {
			return nil, fmt.Errorf("%w: edge %s->%s references an unknown node", ErrInvalidGraph, e.From, e.To)
		}
		if p, ok := parent[e.To]; ok {
			return nil, fmt.Errorf("%w: %s has parents %s and %s", ErrInvalidGraph, e.To, p, e.From)
		}
		parent[e.To] = e.From
	}

	nodes := func(yield func(taxonomy.NodeRecord) bool) {
		for _, n := range doc.Nodes {
			p, ok := parent[n.ID]
			if !ok {
				p = n.ID
			}
			rank := n.Rank
			if rank == "" {
				rank = taxonomy.NoRank
			}
			if !yield(taxonomy.NodeRecord{TaxID: n.ID, ParentID: p, Rank: rank}) {
				return
			}
		}
	}
	names := func(yield func(taxonomy.NameRecord) bool) {
		for _, n := range doc.Nodes {
			if n.Name == "" {
				continue
			}
			if !yield(taxonomy.NameRecord{TaxID: n.ID, Name: n.Name}) {
				return
			}
		}
	}
	return taxonomy.Build(nodes, names)
}

// ImportJSON reads a JSON file at path and returns the decoded tree.
func ImportJSON(path string) (*taxonomy.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
