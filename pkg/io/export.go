package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

type document struct {
	Ranks []string `json:"ranks,omitempty"`
	Nodes []node   `json:"nodes"`
	Edges []edge   `json:"edges"`
}

type node struct {
	ID   string `json:"id"`
	Rank string `json:"rank"`
	Name string `json:"name,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes the subtree under root, at most depth levels deep (a
// negative depth is unlimited, as for [taxonomy.Node.WriteTree]). ranks is
// recorded as given.
func WriteJSON(root *taxonomy.Node, ranks []string, depth int, w io.Writer) error {
	out := document{Ranks: ranks, Nodes: []node{}, Edges: []edge{}}

	var walk func(n *taxonomy.Node, depth int)
	walk = func(n *taxonomy.Node, depth int) {
		if depth == 0 {
			return
		}
		out.Nodes = append(out.Nodes, node{ID: n.ID, Rank: n.Rank, Name: n.Name})
		if depth == 1 {
			return
		}
		for _, c := range n.Children {
			out.Edges = append(out.Edges, edge{From: n.ID, To: c.ID})
			walk(c, depth-1)
		}
	}
	walk(root, depth)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the subtree to a JSON file at path.
func ExportJSON(root *taxonomy.Node, ranks []string, depth int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(root, ranks, depth, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
