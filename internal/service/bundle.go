package service

import (
	"context"

	"github.com/scieloorg/kernel-sub000/internal/domain"
)

// CreateDocumentsBundle creates a brand new, empty bundle.
// domain.ErrAlreadyExists if id is already registered.
func (s *Service) CreateDocumentsBundle(ctx context.Context, id string) error {
	b := domain.NewDocumentsBundle(id, s.now)
	if err := s.sess.DocumentsBundles.Add(ctx, b.Manifest()); err != nil {
		return err
	}
	s.sess.Notify(ctx, DocumentsBundleCreated, id)
	return nil
}

// FetchDocumentsBundle returns the bundle's current values.
func (s *Service) FetchDocumentsBundle(ctx context.Context, id string) (domain.DocumentsBundleData, error) {
	m, err := s.sess.DocumentsBundles.Fetch(ctx, id)
	if err != nil {
		return domain.DocumentsBundleData{}, err
	}
	return domain.DocumentsBundleFromManifest(m, s.now).Data(), nil
}

func (s *Service) withBundle(ctx context.Context, id string, mutate func(*domain.DocumentsBundle) error) error {
	m, err := s.sess.DocumentsBundles.Fetch(ctx, id)
	if err != nil {
		return err
	}
	b := domain.DocumentsBundleFromManifest(m, s.now)
	if err := mutate(b); err != nil {
		return err
	}
	return s.sess.DocumentsBundles.Update(ctx, id, b.Manifest())
}

// BundleMetadata is the set of bundle fields UpdateDocumentsBundleMetadata
// may apply in one call (publication_year, volume, number, supplement,
// titles); nil fields are left unchanged, matching a partial update.
type BundleMetadata struct {
	PublicationYear *string
	Volume          *string
	Number          *string
	Supplement      *string
	Titles          []map[string]interface{}
}

// UpdateDocumentsBundleMetadata applies the given fields of meta.
func (s *Service) UpdateDocumentsBundleMetadata(ctx context.Context, id string, meta BundleMetadata) error {
	err := s.withBundle(ctx, id, func(b *domain.DocumentsBundle) error {
		if meta.PublicationYear != nil {
			if err := b.SetPublicationYear(*meta.PublicationYear); err != nil {
				return err
			}
		}
		if meta.Volume != nil {
			b.SetVolume(*meta.Volume)
		}
		if meta.Number != nil {
			b.SetNumber(*meta.Number)
		}
		if meta.Supplement != nil {
			b.SetSupplement(*meta.Supplement)
		}
		if meta.Titles != nil {
			b.SetTitles(meta.Titles)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.sess.Notify(ctx, DocumentsBundleMetadataUpdated, id)
	return nil
}

// AddDocumentToDocumentsBundle appends docID to the bundle's item list.
func (s *Service) AddDocumentToDocumentsBundle(ctx context.Context, id, docID string) error {
	err := s.withBundle(ctx, id, func(b *domain.DocumentsBundle) error {
		return b.AddDocument(docID)
	})
	if err != nil {
		return err
	}
	s.sess.Notify(ctx, DocumentsBundleDocumentAdded, id)
	return nil
}

// InsertDocumentToDocumentsBundle inserts docID at index, with
// Python-list.insert clamp semantics for out-of-range indices.
func (s *Service) InsertDocumentToDocumentsBundle(ctx context.Context, id string, index int, docID string) error {
	err := s.withBundle(ctx, id, func(b *domain.DocumentsBundle) error {
		return b.InsertDocument(index, docID)
	})
	if err != nil {
		return err
	}
	s.sess.Notify(ctx, DocumentsBundleDocumentInserted, id)
	return nil
}

// RemoveDocumentFromDocumentsBundle removes docID from the bundle's item
// list. domain.ErrDoesNotExist if it isn't present.
func (s *Service) RemoveDocumentFromDocumentsBundle(ctx context.Context, id, docID string) error {
	err := s.withBundle(ctx, id, func(b *domain.DocumentsBundle) error {
		return b.RemoveDocument(docID)
	})
	if err != nil {
		return err
	}
	s.sess.Notify(ctx, DocumentsBundleDocumentRemoved, id)
	return nil
}

// UpdateDocumentsInDocumentsBundle replaces the entire item list: every
// current item is removed, then each of docIDs is added in order.
func (s *Service) UpdateDocumentsInDocumentsBundle(ctx context.Context, id string, docIDs []string) error {
	err := s.withBundle(ctx, id, func(b *domain.DocumentsBundle) error {
		return b.UpdateDocuments(docIDs)
	})
	if err != nil {
		return err
	}
	s.sess.Notify(ctx, DocumentsBundleDocumentsUpdated, id)
	return nil
}
