package taxdump

import (
	"context"
	"iter"
	"time"

	"github.com/taxmagick/taxmagick/pkg/observability"
	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

// LoadOptions controls [Load].
type LoadOptions struct {
	// Names loads display names from names.dmp. Without it every node
	// displays as its id.
	Names bool
	// NameClass selects which names.dmp rows are used.
	NameClass string
}

// Load builds a tree from the dump at p. Stream errors take precedence over
// assembly errors, since a truncated stream usually explains a missing
// root.
func Load(ctx context.Context, p string, opts LoadOptions) (*taxonomy.Tree, error) {
	start := time.Now()
	observability.Tree().OnBuildStart(ctx, p)

	tree, err := load(ctx, p, opts)
	count := 0
	if tree != nil {
		count = tree.Len()
	}
	observability.Tree().OnBuildComplete(ctx, p, count, time.Since(start), err)
	return tree, err
}

func load(ctx context.Context, p string, opts LoadOptions) (*taxonomy.Tree, error) {
	d, err := Open(p)
	if err != nil {
		return nil, err
	}

	nodes := d.Nodes(ctx)
	defer nodes.Close()

	var names iter.Seq[taxonomy.NameRecord]
	var nameStream *Stream[taxonomy.NameRecord]
	if opts.Names {
		nameStream = d.Names(ctx, opts.NameClass)
		defer nameStream.Close()
		names = nameStream.All()
	}

	tree, err := taxonomy.Build(nodes.All(), names)
	if serr := nodes.Err(); serr != nil {
		return nil, serr
	}
	if nameStream != nil {
		if serr := nameStream.Err(); serr != nil {
			return nil, serr
		}
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return tree, nil
}
