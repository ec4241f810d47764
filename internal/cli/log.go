// Package cli implements the taxmagick command-line interface.
//
// Every data command loads a taxonomy dump (a local archive or directory, an
// HTTP(S) URL, or an s3:// object), builds the tree of taxa, optionally
// re-roots and prunes it, and writes one view of the result. Downloads are
// kept in the cache directory and reused until their TTL expires.
//
// # Commands
//
// The main commands are:
//   - tree: Print the taxonomy as an indented text tree
//   - lineages: Write one row per taxon with its ancestor at every rank
//   - dot: Draw a depth-limited subtree as Graphviz DOT, SVG, PNG or PDF
//   - ranks: Print the inferred rank order
//   - serve: Serve the tree over HTTP with Prometheus metrics
//   - browse: Navigate the tree interactively
//   - cache: Manage downloaded archives
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/taxmagick/taxmagick/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, with "15:04:05.00"
// timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one step of loading, such as reading the taxdump.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Loaded 2634712 taxa (4.215s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey struct{}

// withLogger attaches l to ctx for the command's helpers.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger set by withLogger, or log.Default()
// when a command runs without setup (as in some tests).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
