package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medicapp/clinic-backend/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

const (
	collectionIdentities = "identities"
	collectionDoctors    = "doctors"
	collectionCategories = "categories"
	collectionPatients   = "patients"
	collectionCounters   = "counters"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the unique indexes the repositories rely on for
// atomic duplicate detection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := map[string]mongo.IndexModel{
		collectionIdentities: {Keys: bson.D{{Key: "login_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		collectionDoctors:    {Keys: bson.D{{Key: "employee_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		collectionCategories: {Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		collectionPatients:   {Keys: bson.D{{Key: "patient_number", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	for coll, model := range unique {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", coll, err)
		}
	}

	_, err := db.Collection(collectionPatients).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category_ids", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create index on %s: %w", collectionPatients, err)
	}
	return nil
}

// Transactor runs units of work inside a MongoDB multi-document transaction.
// The deployment must be a replica set.
type Transactor struct {
	client *mongo.Client
}

func NewTransactor(client *mongo.Client) *Transactor {
	return &Transactor{client: client}
}

// WithinTransaction hands fn a session context; repository calls made with it
// join the transaction.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// translate maps driver errors onto the domain error taxonomy.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrConflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// matched returns ErrNotFound when an update touched no document.
func matched(res *mongo.UpdateResult, err error, op string) error {
	if err != nil {
		return translate(err, op)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
