// Package sink writes lineage rows to CSV, SQLite, PostgreSQL or MongoDB.
//
// All sinks implement [Writer]. The header is written once, before any
// row, and names the rank columns; a row's lineage is projected onto
// those columns. [Open] picks a sink from a target string:
//
//	""  or "-"               CSV on stdout
//	out.csv                  CSV file
//	sqlite://out.db, out.db  SQLite database (also *.sqlite)
//	postgres://host/db       PostgreSQL database (also postgresql://)
//	mongodb://host/...       MongoDB collection
package sink

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

// Writer is a lineage sink.
type Writer interface {
	taxonomy.RowWriter
	// WriteHeader declares the rank columns. It must be called once before
	// the first WriteRow.
	WriteHeader(ranks []string) error
	// Close flushes buffered rows and releases the sink.
	Close() error
}

// Options configures [Open].
type Options struct {
	// Stdout receives CSV for the "-" target. Defaults to os.Stdout.
	Stdout io.Writer
	Mongo  MongoOptions
}

// Kind names a sink type.
type Kind string

const (
	KindCSV      Kind = "csv"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindMongo    Kind = "mongodb"
)

// Resolve returns the sink kind for target and the location to hand to it
// (a file path, or the URI for PostgreSQL and MongoDB).
func Resolve(target string) (Kind, string) {
	lower := strings.ToLower(target)
	switch {
	case strings.HasPrefix(lower, "sqlite://"):
		return KindSQLite, target[len("sqlite://"):]
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return KindPostgres, target
	case strings.HasPrefix(lower, "mongodb://"), strings.HasPrefix(lower, "mongodb+srv://"):
		return KindMongo, target
	case strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"):
		return KindSQLite, target
	}
	return KindCSV, target
}

// Open creates the sink named by target.
func Open(ctx context.Context, target string, opts Options) (Writer, error) {
	kind, loc := Resolve(target)
	switch kind {
	case KindSQLite:
		return NewSQLiteWriter(ctx, loc)
	case KindPostgres:
		return NewPostgresWriter(ctx, loc)
	case KindMongo:
		return NewMongoWriter(ctx, loc, opts.Mongo)
	}

	if loc == "" || loc == "-" {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		return NewCSVWriter(out, nil), nil
	}
	f, err := os.Create(loc)
	if err != nil {
		return nil, err
	}
	return NewCSVWriter(f, f), nil
}

// project lays the lineage out along ranks, with empty strings for ranks
// the row has no ancestor at.
func project(lineage map[string]string, ranks []string) []string {
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = lineage[r]
	}
	return out
}
