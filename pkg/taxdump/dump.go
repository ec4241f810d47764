package taxdump

import (
	"context"
	"fmt"
	"io"

	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

// Member file names inside a dump.
const (
	NodesFile = "nodes.dmp"
	NamesFile = "names.dmp"
)

// DefaultNameClass selects the names used for display.
const DefaultNameClass = "scientific name"

// Dump is a taxonomy dump on disk.
type Dump struct {
	Path   string
	Format Format
}

// Open checks that p is a readable dump and returns a handle to it. No
// member is read until a stream is iterated.
func Open(p string) (*Dump, error) {
	format, err := DetectFormat(p)
	if err != nil {
		return nil, err
	}
	return &Dump{Path: p, Format: format}, nil
}

func (d *Dump) opener(name string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return openMember(d.Path, d.Format, name)
	}
}

// Nodes streams nodes.dmp as (tax_id, parent_id, rank) records.
func (d *Dump) Nodes(ctx context.Context) *Stream[taxonomy.NodeRecord] {
	return &Stream[taxonomy.NodeRecord]{
		ctx:    ctx,
		name:   NodesFile,
		open:   d.opener(NodesFile),
		decode: decodeNode,
	}
}

// Names streams names.dmp rows of the given name class as (tax_id, name)
// records. An empty class means [DefaultNameClass].
func (d *Dump) Names(ctx context.Context, class string) *Stream[taxonomy.NameRecord] {
	if class == "" {
		class = DefaultNameClass
	}
	return &Stream[taxonomy.NameRecord]{
		ctx:  ctx,
		name: NamesFile,
		open: d.opener(NamesFile),
		decode: func(fields []string) (taxonomy.NameRecord, bool, error) {
			return decodeName(fields, class)
		},
	}
}

func decodeNode(fields []string) (taxonomy.NodeRecord, bool, error) {
	if len(fields) < 3 {
		return taxonomy.NodeRecord{}, false, fmt.Errorf("%w: want at least 3 fields, got %d", ErrMalformedRecord, len(fields))
	}
	return taxonomy.NodeRecord{TaxID: fields[0], ParentID: fields[1], Rank: fields[2]}, true, nil
}

func decodeName(fields []string, class string) (taxonomy.NameRecord, bool, error) {
	if len(fields) < 4 {
		return taxonomy.NameRecord{}, false, fmt.Errorf("%w: want at least 4 fields, got %d", ErrMalformedRecord, len(fields))
	}
	if fields[3] != class {
		return taxonomy.NameRecord{}, false, nil
	}
	return taxonomy.NameRecord{TaxID: fields[0], Name: fields[1]}, true, nil
}
