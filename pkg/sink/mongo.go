package sink

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

// mongoBatch is the number of documents per InsertMany.
const mongoBatch = 1000

// MongoOptions names the destination collection.
type MongoOptions struct {
	Database   string
	Collection string
}

func (o MongoOptions) withDefaults() MongoOptions {
	if o.Database == "" {
		o.Database = "taxmagick"
	}
	if o.Collection == "" {
		o.Collection = "lineages"
	}
	return o
}

// inserter is the part of *mongo.Collection the writer uses.
type inserter interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// MongoWriter stores one document per lineage, tagged with a run id.
type MongoWriter struct {
	RunID string

	ctx     context.Context
	client  *mongo.Client
	coll    inserter
	ranks   []string
	pending []interface{}
}

// NewMongoWriter connects to uri.
func NewMongoWriter(ctx context.Context, uri string, opts MongoOptions) (*MongoWriter, error) {
	opts = opts.withDefaults()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	w := newMongoWriter(ctx, client.Database(opts.Database).Collection(opts.Collection))
	w.client = client
	return w, nil
}

func newMongoWriter(ctx context.Context, coll inserter) *MongoWriter {
	return &MongoWriter{RunID: uuid.NewString(), ctx: ctx, coll: coll}
}

// WriteHeader records the rank order. Documents carry only the ranks they
// have, so the header is not stored separately.
func (m *MongoWriter) WriteHeader(ranks []string) error {
	m.ranks = ranks
	return nil
}

// WriteRow queues a document, flushing every mongoBatch rows.
func (m *MongoWriter) WriteRow(row taxonomy.Row) error {
	lineage := bson.D{}
	for _, r := range m.ranks {
		if name, ok := row.Lineage[r]; ok {
			lineage = append(lineage, bson.E{Key: r, Value: name})
		}
	}
	m.pending = append(m.pending, bson.D{
		{Key: "run_id", Value: m.RunID},
		{Key: "tax_id", Value: row.TaxID},
		{Key: "tax_name", Value: row.Name},
		{Key: "rank", Value: row.Rank},
		{Key: "lineage", Value: lineage},
	})
	if len(m.pending) >= mongoBatch {
		return m.flush()
	}
	return nil
}

func (m *MongoWriter) flush() error {
	if len(m.pending) == 0 {
		return nil
	}
	if _, err := m.coll.InsertMany(m.ctx, m.pending); err != nil {
		return fmt.Errorf("insert lineages: %w", err)
	}
	m.pending = m.pending[:0]
	return nil
}

// Close flushes queued documents and disconnects.
func (m *MongoWriter) Close() error {
	err := m.flush()
	if m.client != nil {
		if derr := m.client.Disconnect(m.ctx); err == nil {
			err = derr
		}
	}
	return err
}

var _ Writer = (*MongoWriter)(nil)
