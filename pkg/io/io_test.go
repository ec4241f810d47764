package io

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

func sampleTree(t *testing.T) *taxonomy.Tree {
	t.Helper()
	nodes := []taxonomy.NodeRecord{
		{TaxID: "1", ParentID: "1", Rank: taxonomy.NoRank},
		{TaxID: "9604", ParentID: "1", Rank: "family"},
		{TaxID: "9605", ParentID: "9604", Rank: "genus"},
		{TaxID: "9606", ParentID: "9605", Rank: "species"},
		{TaxID: "9596", ParentID: "9604", Rank: "genus"},
		{TaxID: "9598", ParentID: "9596", Rank: "species"},
	}
	names := []taxonomy.NameRecord{
		{TaxID: "9604", Name: "Hominidae"},
		{TaxID: "9606", Name: "Homo sapiens"},
	}
	tree, err := taxonomy.Build(slices.Values(nodes), slices.Values(names))
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func treeText(t *testing.T, n *taxonomy.Node) string {
	t.Helper()
	var buf bytes.Buffer
	if err := n.WriteTree(&buf, -1, taxonomy.DefaultTreeMarker); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestRoundTrip(t *testing.T) {
	tree := sampleTree(t)
	path := filepath.Join(t.TempDir(), "hominidae.json")
	if err := ExportJSON(tree.Root, tree.Ranks, -1, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if a, b := treeText(t, tree.Root), treeText(t, got.Root); a != b {
		t.Errorf("round trip changed the tree:\n%s\nwant:\n%s", b, a)
	}
	if !slices.Equal(got.Ranks, tree.Ranks) {
		t.Errorf("Ranks = %v, want %v", got.Ranks, tree.Ranks)
	}
}

func TestRoundTripExpanded(t *testing.T) {
	tree := sampleTree(t)
	if err := tree.ExpandRanks("_"); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(tree.Root, tree.Ranks, -1, &buf); err != nil {
		t.Fatal(err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := got.ExpandRanks("_"); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Ranks, tree.Ranks) {
		t.Errorf("Ranks = %v, want %v", got.Ranks, tree.Ranks)
	}
}

func TestWriteJSONDepth(t *testing.T) {
	tree := sampleTree(t)
	root, err := tree.Lookup("9604")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(root, nil, 2, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"id": "9604"`, `"name": "Hominidae"`, `"from": "9604"`, `"to": "9596"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "9606") || strings.Contains(out, `"ranks"`) {
		t.Errorf("depth 2 should stop at genera and omit empty ranks:\n%s", out)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"malformed", `{"nodes": [`, nil},
		{"duplicate node", `{"nodes":[{"id":"1"},{"id":"1"}],"edges":[]}`, ErrInvalidGraph},
		{"unknown edge", `{"nodes":[{"id":"1"}],"edges":[{"from":"1","to":"2"}]}`, ErrInvalidGraph},
		{"two parents", `{"nodes":[{"id":"1"},{"id":"2"},{"id":"3"}],"edges":[{"from":"1","to":"3"},{"from":"2","to":"3"}]}`, ErrInvalidGraph},
		{"two roots", `{"nodes":[{"id":"1"},{"id":"2"}],"edges":[]}`, taxonomy.ErrMultipleRoots},
		{"empty", `{"nodes":[],"edges":[]}`, taxonomy.ErrNoRoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestReadJSONDefaultsRank(t *testing.T) {
	tree, err := ReadJSON(strings.NewReader(`{"nodes":[{"id":"1"},{"id":"2","rank":"genus"}],"edges":[{"from":"1","to":"2"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if tree.Root.Rank != taxonomy.NoRank {
		t.Errorf("root rank = %q, want %q", tree.Root.Rank, taxonomy.NoRank)
	}
}
