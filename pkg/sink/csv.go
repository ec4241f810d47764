package sink

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

// CSVWriter writes lineages as CSV with columns
// tax_id,tax_name,rank,<rank columns...>.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
	ranks  []string
}

// NewCSVWriter writes to w. If closer is non-nil it is closed by Close.
func NewCSVWriter(w io.Writer, closer io.Closer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w), closer: closer}
}

// WriteHeader writes the header line.
func (c *CSVWriter) WriteHeader(ranks []string) error {
	c.ranks = ranks
	return c.w.Write(append([]string{"tax_id", "tax_name", "rank"}, ranks...))
}

// WriteRow writes one record.
func (c *CSVWriter) WriteRow(row taxonomy.Row) error {
	rec := append([]string{row.TaxID, row.Name, row.Rank}, project(row.Lineage, c.ranks)...)
	return c.w.Write(rec)
}

// Close flushes and closes the underlying file, if any.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	err := c.w.Error()
	if c.closer != nil {
		err = errors.Join(err, c.closer.Close())
	}
	return err
}

var _ Writer = (*CSVWriter)(nil)
