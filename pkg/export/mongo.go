// Package export persists annotation results for corpus-level querying.
//
// The only backend is MongoDB: one document per identified predicate, so
// questions like "all predicates with pattern X" or "every clause where
// lemma Y takes an agent" become plain collection queries instead of another
// pass over the treebank.
package export

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrijkeboer/udpas/pkg/graph"
	"github.com/mrijkeboer/udpas/pkg/pas"
)

// Argument is one role fill inside a predicate record.
type Argument struct {
	Role    string   `bson:"role"`
	Targets []string `bson:"targets"`
}

// Record is one identified predicate instance.
type Record struct {
	RunID     string     `bson:"run_id"`
	SentID    string     `bson:"sent_id"`
	NodeID    string     `bson:"node_id"`
	Predicate string     `bson:"predicate"`
	Pattern   string     `bson:"pattern"`
	Arguments []Argument `bson:"arguments"`
}

// Config locates the target collection.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Mongo writes predicate records to a MongoDB collection.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to the configured deployment and pings it so a bad URI
// fails at startup instead of on the first sentence.
func NewMongo(ctx context.Context, cfg Config) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &Mongo{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Records extracts one record per identified predicate of an annotated
// sentence, in node order. Sentences without predicates yield nil.
func Records(runID, sentID string, store *graph.Store) []Record {
	var records []Record
	for n := range store.OrderedNodes() {
		if n.PredicateID == "" || n.PredicateID == pas.NoPredicate {
			continue
		}
		rec := Record{
			RunID:     runID,
			SentID:    sentID,
			NodeID:    n.ID.String(),
			Predicate: n.PredicateID,
			Pattern:   n.ArgumentPattern,
		}
		for _, a := range n.Arguments {
			targets := make([]string, len(a.Targets))
			for i, t := range a.Targets {
				targets[i] = t.String()
			}
			rec.Arguments = append(rec.Arguments, Argument{Role: a.Role, Targets: targets})
		}
		records = append(records, rec)
	}
	return records
}

// ExportSentence inserts the predicate records of one annotated sentence.
// Sentences without predicates are a no-op.
func (m *Mongo) ExportSentence(ctx context.Context, runID, sentID string, store *graph.Store) (int, error) {
	records := Records(runID, sentID, store)
	if len(records) == 0 {
		return 0, nil
	}
	docs := make([]any, len(records))
	for i, r := range records {
		docs[i] = r
	}
	if _, err := m.coll.InsertMany(ctx, docs); err != nil {
		return 0, fmt.Errorf("insert predicate records: %w", err)
	}
	return len(records), nil
}

// Close disconnects from the deployment.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
