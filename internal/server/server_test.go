package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/taxmagick/taxmagick/pkg/errors"
	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

func testTree(t *testing.T) *taxonomy.Tree {
	t.Helper()
	nodes := []taxonomy.NodeRecord{
		{TaxID: "1", ParentID: "1", Rank: "no rank"},
		{TaxID: "9604", ParentID: "1", Rank: "family"},
		{TaxID: "9605", ParentID: "9604", Rank: "genus"},
		{TaxID: "9606", ParentID: "9605", Rank: "species"},
		{TaxID: "9596", ParentID: "9604", Rank: "genus"},
		{TaxID: "9598", ParentID: "9596", Rank: "species"},
	}
	names := []taxonomy.NameRecord{
		{TaxID: "9604", Name: "Hominidae"},
		{TaxID: "9605", Name: "Homo"},
		{TaxID: "9606", Name: "Homo sapiens"},
		{TaxID: "9596", Name: "Pan"},
		{TaxID: "9598", Name: "Pan troglodytes"},
	}
	tree, err := taxonomy.Build(slices.Values(nodes), slices.Values(names))
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(testTree(t), log.New(io.Discard))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, ts *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestHealthAndRanks(t *testing.T) {
	_, ts := newTestServer(t)

	code, body := get(t, ts, "/healthz")
	if code != http.StatusOK || !strings.Contains(body, `"taxa":6`) {
		t.Errorf("/healthz = %d %s", code, body)
	}

	code, body = get(t, ts, "/ranks")
	var got struct{ Ranks []string }
	if err := json.Unmarshal([]byte(body), &got); err != nil || code != http.StatusOK {
		t.Fatalf("/ranks = %d %s", code, body)
	}
	if want := []string{"family", "genus", "species"}; !slices.Equal(got.Ranks, want) {
		t.Errorf("ranks = %v, want %v", got.Ranks, want)
	}
}

func TestTaxon(t *testing.T) {
	_, ts := newTestServer(t)

	code, body := get(t, ts, "/taxa/9604")
	if code != http.StatusOK {
		t.Fatalf("status = %d, body %s", code, body)
	}
	var got taxonResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatal(err)
	}
	want := taxonResponse{ID: "9604", Name: "Hominidae", Rank: "family", Children: []string{"9605", "9596"}}
	if got.ID != want.ID || got.Name != want.Name || got.Rank != want.Rank || !slices.Equal(got.Children, want.Children) {
		t.Errorf("taxon = %+v, want %+v", got, want)
	}
}

func TestTree(t *testing.T) {
	s, ts := newTestServer(t)

	code, body := get(t, ts, "/taxa/9604/tree?depth=2")
	want := "|--- 9604 \"Hominidae\" [family]\n" +
		"|    |--- 9605 \"Homo\" [genus]\n" +
		"|    |--- 9596 \"Pan\" [genus]\n"
	if code != http.StatusOK || body != want {
		t.Errorf("tree = %d\n%s\nwant\n%s", code, body, want)
	}

	code, body = get(t, ts, "/taxa/1/tree?ids=9598")
	want = "|--- 1 \"1\" [no rank]\n" +
		"|    |--- 9604 \"Hominidae\" [family]\n" +
		"|    |    |--- 9596 \"Pan\" [genus]\n" +
		"|    |    |    |--- 9598 \"Pan troglodytes\" [species]\n"
	if code != http.StatusOK || body != want {
		t.Errorf("pruned tree = %d\n%s\nwant\n%s", code, body, want)
	}
	if s.Tree.Root.Count() != 6 {
		t.Error("pruning a request modified the shared tree")
	}
}

func TestTreeJSON(t *testing.T) {
	_, ts := newTestServer(t)

	code, body := get(t, ts, "/taxa/9605/tree?format=json")
	if code != http.StatusOK {
		t.Fatalf("json tree = %d %s", code, body)
	}
	var doc struct {
		Ranks []string
		Nodes []struct{ ID, Rank, Name string }
		Edges []struct{ From, To string }
	}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 2 || doc.Nodes[1].Name != "Homo sapiens" {
		t.Errorf("nodes = %+v", doc.Nodes)
	}
	if len(doc.Edges) != 1 || doc.Edges[0].From != "9605" || doc.Edges[0].To != "9606" {
		t.Errorf("edges = %+v", doc.Edges)
	}
	if want := []string{"genus", "species"}; !slices.Equal(doc.Ranks, want) {
		t.Errorf("ranks = %v, want %v", doc.Ranks, want)
	}
}

func TestLineages(t *testing.T) {
	_, ts := newTestServer(t)

	code, body := get(t, ts, "/taxa/9605/lineages")
	want := "tax_id,tax_name,rank,genus,species\n" +
		"9605,Homo,genus,Homo,\n" +
		"9606,Homo sapiens,species,Homo,Homo sapiens\n"
	if code != http.StatusOK || body != want {
		t.Errorf("lineages = %d\n%s\nwant\n%s", code, body, want)
	}
}

func TestErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		path string
		code int
		err  errors.Code
	}{
		{"/taxa/424242", http.StatusNotFound, errors.ErrCodeTaxonNotFound},
		{"/taxa/1/tree?ids=9606,424242", http.StatusNotFound, errors.ErrCodeTaxonNotFound},
		{"/taxa/1/tree?depth=deep", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/taxa/1/tree?format=xml", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/taxa/a,b", http.StatusBadRequest, errors.ErrCodeInvalidTaxID},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := get(t, ts, tt.path)
			if code != tt.code {
				t.Errorf("status = %d, want %d (%s)", code, tt.code, body)
			}
			var e errorResponse
			if err := json.Unmarshal([]byte(body), &e); err != nil || e.Code != tt.err {
				t.Errorf("error body = %s, want code %s", body, tt.err)
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	s, ts := newTestServer(t)
	get(t, ts, "/taxa/9606")
	get(t, ts, "/taxa/nope")
	s.Metrics.OnCacheHit(context.Background(), "archive")
	s.Metrics.OnBuildComplete(context.Background(), "taxdump.tar.gz", 6, time.Second, nil)

	code, body := get(t, ts, "/metrics")
	if code != http.StatusOK {
		t.Fatalf("/metrics status = %d", code)
	}
	for _, want := range []string{
		`taxmagick_http_requests_total{code="200",route="/taxa/{id}`,
		`taxmagick_http_requests_total{code="404",route="/taxa/{id}`,
		`taxmagick_cache_lookups_total{outcome="hit",type="archive"} 1`,
		`taxmagick_tree_taxa 6`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(testTree(t), log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("ListenAndServe() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
