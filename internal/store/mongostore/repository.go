package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scieloorg/kernel-sub000/internal/domain"
	"github.com/scieloorg/kernel-sub000/internal/manifest"
)

// Repository is a generic one-collection-per-entity store, grounded on the
// FindOne/error-translation idiom of the teacher's Mongo-backed event
// store: mongo.ErrNoDocuments becomes domain.ErrDoesNotExist and a
// duplicate-key insert becomes domain.ErrAlreadyExists, so callers above
// this layer never see a driver type.
type Repository[T any] struct {
	collection *mongo.Collection
}

// NewRepository wraps collection for manifests of type T.
func NewRepository[T any](collection *mongo.Collection) *Repository[T] {
	return &Repository[T]{collection: collection}
}

// Add inserts a brand new manifest. domain.ErrAlreadyExists if its _id
// collides with an existing document.
func (r *Repository[T]) Add(ctx context.Context, doc T) error {
	_, err := r.collection.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

// Update replaces the manifest with id wholesale. domain.ErrDoesNotExist if
// no document with that id exists.
func (r *Repository[T]) Update(ctx context.Context, id string, doc T) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrDoesNotExist
	}
	return nil
}

// Fetch retrieves the manifest with id. domain.ErrDoesNotExist if absent.
func (r *Repository[T]) Fetch(ctx context.Context, id string) (T, error) {
	var doc T
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, domain.ErrDoesNotExist
	}
	return doc, err
}

// DocumentRepository persists document manifests.
type DocumentRepository = Repository[manifest.DocumentManifest]

// BundleRepository persists DocumentsBundle manifests.
type BundleRepository = Repository[manifest.BundleManifest]

// JournalRepository persists Journal manifests. Journals and bundles share
// a manifest shape (ordered items, metadata histories, singleton
// components), so the same Repository[manifest.BundleManifest] serves
// both, over different collections.
type JournalRepository = Repository[manifest.BundleManifest]

// NewDocumentRepository opens the documents collection.
func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return NewRepository[manifest.DocumentManifest](db.Collection("documents"))
}

// NewBundleRepository opens the documents_bundles collection.
func NewBundleRepository(db *mongo.Database) *BundleRepository {
	return NewRepository[manifest.BundleManifest](db.Collection("documents_bundles"))
}

// NewJournalRepository opens the journals collection.
func NewJournalRepository(db *mongo.Database) *JournalRepository {
	return NewRepository[manifest.BundleManifest](db.Collection("journals"))
}
