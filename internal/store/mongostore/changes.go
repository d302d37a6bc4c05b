package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scieloorg/kernel-sub000/internal/domain"
)

// DefaultChangesLimit is the page size Filter applies when the caller
// passes a limit that is not positive.
const DefaultChangesLimit = 500

// Change is one append-only change-log entry.
type Change struct {
	Timestamp string `bson:"timestamp"`
	Entity    string `bson:"entity"`
	ID        string `bson:"id"`
	Deleted   bool   `bson:"deleted,omitempty"`
}

// ChangesRepository is the append-only change log, keyed uniquely by
// timestamp so concurrent writers racing for the same instant fail one of
// them rather than silently reordering history.
type ChangesRepository struct {
	collection *mongo.Collection
}

// NewChangesRepository opens the changes collection.
func NewChangesRepository(db *mongo.Database) *ChangesRepository {
	return &ChangesRepository{collection: db.Collection("changes")}
}

// Add appends c. domain.ErrAlreadyExists if its timestamp collides with an
// existing entry - callers should retry with a bumped timestamp.
func (r *ChangesRepository) Add(ctx context.Context, c Change) error {
	_, err := r.collection.InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

// Filter returns changes with timestamp strictly after since, in
// ascending order, capped at limit entries (DefaultChangesLimit if limit
// is not positive). An empty since returns from the beginning of the log.
func (r *ChangesRepository) Filter(ctx context.Context, since string, limit int64) ([]Change, error) {
	if limit <= 0 {
		limit = DefaultChangesLimit
	}
	filter := bson.M{}
	if since != "" {
		filter["timestamp"] = bson.M{"$gt": since}
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var changes []Change
	if err := cursor.All(ctx, &changes); err != nil {
		return nil, err
	}
	return changes, nil
}

// EnsureCollections creates the entity and change-log collections up
// front, tolerating a collection that already exists.
func EnsureCollections(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{"documents", "documents_bundles", "journals", "changes"} {
		if err := db.CreateCollection(ctx, name); err != nil {
			var cmdErr mongo.CommandError
			if errors.As(err, &cmdErr) && cmdErr.Code == 48 { // NamespaceExists
				continue
			}
			return err
		}
	}
	return nil
}

// EnsureIndexes creates the unique timestamp index the change log relies
// on for ordering and collision detection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("changes").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
