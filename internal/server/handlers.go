package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taxmagick/taxmagick/pkg/buildinfo"
	"github.com/taxmagick/taxmagick/pkg/errors"
	taxio "github.com/taxmagick/taxmagick/pkg/io"
	"github.com/taxmagick/taxmagick/pkg/observability"
	"github.com/taxmagick/taxmagick/pkg/sink"
	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

type taxonResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Rank     string   `json:"rank"`
	Children []string `json:"children"`
}

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "taxa": s.Tree.Len(), "build": buildinfo.Get()})
}

func (s *Server) handleRanks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ranks": s.Tree.Ranks})
}

func (s *Server) handleTaxon(w http.ResponseWriter, r *http.Request) {
	n, ok := s.subtree(w, r)
	if !ok {
		return
	}
	children := make([]string, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.ID
	}
	writeJSON(w, http.StatusOK, taxonResponse{ID: n.ID, Name: n.DisplayName(), Rank: n.Rank, Children: children})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	depth := -1
	if v := r.URL.Query().Get("depth"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "depth must be an integer: %q", v))
			return
		}
		depth = d
	}
	format := r.URL.Query().Get("format")
	if format != "" && format != "text" && format != "json" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "unknown format %q", format))
		return
	}
	n, ok := s.subtree(w, r)
	if !ok {
		return
	}

	start := time.Now()
	var err error
	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
		err = taxio.WriteJSON(n, s.Tree.OutputRanks(n), depth, w)
	} else {
		format = "tree"
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		err = n.WriteTree(w, depth, taxonomy.DefaultTreeMarker)
	}
	observability.Tree().OnOutput(r.Context(), format, n.Count(), time.Since(start), err)
	if err != nil {
		s.Logger.Warn("write tree", "err", err)
	}
}

func (s *Server) handleLineages(w http.ResponseWriter, r *http.Request) {
	n, ok := s.subtree(w, r)
	if !ok {
		return
	}

	start := time.Now()
	ranks := s.Tree.OutputRanks(n)
	w.Header().Set("Content-Type", "text/csv")
	csvw := sink.NewCSVWriter(w, nil)
	err := csvw.WriteHeader(ranks)
	if err == nil {
		err = taxonomy.WriteLineages(n, csvw, ranks)
	}
	if cerr := csvw.Close(); err == nil {
		err = cerr
	}
	observability.Tree().OnOutput(r.Context(), "lineages", n.Count(), time.Since(start), err)
	if err != nil {
		s.Logger.Warn("write lineages", "err", err)
	}
}

// subtree resolves the {id} path parameter and the optional ids query
// parameter. On failure it writes the error response and returns false.
func (s *Server) subtree(w http.ResponseWriter, r *http.Request) (*taxonomy.Node, bool) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateTaxID(id); err != nil {
		s.writeError(w, err)
		return nil, false
	}
	keep := taxonomy.ParseIDs(r.URL.Query().Get("ids"))
	if err := errors.ValidateTaxIDs(keep.Sorted()); err != nil {
		s.writeError(w, err)
		return nil, false
	}
	n, err := s.Tree.Subtree(id, keep)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return n, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	e := errors.Classify(err)
	status := errors.HTTPStatus(e.Code)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: e.Code, Error: errors.UserMessage(e)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
