package service

import (
	"context"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/scieloorg/kernel-sub000/internal/domain"
	"github.com/scieloorg/kernel-sub000/internal/manifest"
	"github.com/scieloorg/kernel-sub000/internal/session"
)

// defaultTimeout is the object-store fetch timeout a handler uses when the
// caller hasn't got one of their own to pass down.
const defaultTimeout = 2 * time.Second

// Service is the command-handler surface: one method per use case,
// each opening against the shared Session, mutating an aggregate,
// persisting it, and notifying the event bus on success.
type Service struct {
	sess  *session.Session
	now   manifest.NowFunc
	fetch domain.AssetsFetcher
}

// NewService wires a Service over sess, installing the default
// subscribers (change-log writers) exactly once.
func NewService(sess *session.Session, now manifest.NowFunc, fetch domain.AssetsFetcher) *Service {
	if now == nil {
		now = manifest.UTCNow
	}
	InstallDefaultSubscribers(sess, now)
	return &Service{sess: sess, now: now, fetch: fetch}
}

// RegisterDocument creates a brand new document at dataURL.
// domain.ErrAlreadyExists if id is already registered.
func (s *Service) RegisterDocument(ctx context.Context, id, dataURL string) error {
	doc := domain.NewDocument(id, s.now)
	if err := doc.NewVersion(ctx, dataURL, s.fetch, defaultTimeout); err != nil {
		return err
	}
	if err := s.sess.Documents.Add(ctx, doc.Manifest()); err != nil {
		return err
	}
	s.sess.Notify(ctx, DocumentRegistered, id)
	return nil
}

// RegisterDocumentVersion appends a new live version to an existing
// document. domain.ErrVersionAlreadySet is returned - and should be
// treated as idempotent success - if dataURL repeats the current version.
func (s *Service) RegisterDocumentVersion(ctx context.Context, id, dataURL string) error {
	m, err := s.sess.Documents.Fetch(ctx, id)
	if err != nil {
		return err
	}
	doc := domain.DocumentFromManifest(m, s.now)
	if err := doc.NewVersion(ctx, dataURL, s.fetch, defaultTimeout); err != nil {
		return err
	}
	if err := s.sess.Documents.Update(ctx, id, doc.Manifest()); err != nil {
		return err
	}
	s.sess.Notify(ctx, DocumentVersionRegistered, id)
	return nil
}

// FetchDocumentManifest returns the document's full version history.
func (s *Service) FetchDocumentManifest(ctx context.Context, id string) (manifest.DocumentManifest, error) {
	return s.sess.Documents.Fetch(ctx, id)
}

// FetchDocumentData fetches and rewrites the XML body for the selected
// version. versionAt takes precedence over versionIndex.
func (s *Service) FetchDocumentData(ctx context.Context, id string, versionIndex int, versionAt string) ([]byte, error) {
	m, err := s.sess.Documents.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := domain.DocumentFromManifest(m, s.now)
	return doc.Data(ctx, versionIndex, versionAt, s.fetch, defaultTimeout)
}

// FetchAssetsList returns the latest known URI per asset id.
func (s *Service) FetchAssetsList(ctx context.Context, id string) (map[string]string, error) {
	m, err := s.sess.Documents.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := domain.DocumentFromManifest(m, s.now)
	v, err := doc.Version(-1)
	if err != nil {
		return nil, err
	}
	return v.Assets, nil
}

// RegisterAssetVersion records a new URI for an asset already known to the
// document's latest version. domain.ErrUnknownAsset if it isn't.
func (s *Service) RegisterAssetVersion(ctx context.Context, id, assetID, uri string) error {
	m, err := s.sess.Documents.Fetch(ctx, id)
	if err != nil {
		return err
	}
	doc := domain.DocumentFromManifest(m, s.now)
	if err := doc.NewAssetVersion(assetID, uri); err != nil {
		return err
	}
	if err := s.sess.Documents.Update(ctx, id, doc.Manifest()); err != nil {
		return err
	}
	s.sess.Notify(ctx, DocumentAssetVersionRegistered, id)
	return nil
}

// RegisterRenditionVersion records a new rendition file.
func (s *Service) RegisterRenditionVersion(ctx context.Context, id, filename, dataURL, mimetype, lang string, sizeBytes int64) error {
	m, err := s.sess.Documents.Fetch(ctx, id)
	if err != nil {
		return err
	}
	doc := domain.DocumentFromManifest(m, s.now)
	if err := doc.NewRenditionVersion(filename, dataURL, mimetype, lang, sizeBytes); err != nil {
		return err
	}
	if err := s.sess.Documents.Update(ctx, id, doc.Manifest()); err != nil {
		return err
	}
	s.sess.Notify(ctx, DocumentRenditionVersionAdded, id)
	return nil
}

// FetchDocumentRenditions returns the latest entry for every rendition
// file in the document's latest version.
func (s *Service) FetchDocumentRenditions(ctx context.Context, id string) ([]domain.MaterializedRendition, error) {
	m, err := s.sess.Documents.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := domain.DocumentFromManifest(m, s.now)
	v, err := doc.Version(-1)
	if err != nil {
		return nil, err
	}
	return v.Renditions, nil
}

// DeleteDocument appends a tombstone version. Idempotent: deleting an
// already-deleted document returns domain.ErrVersionAlreadySet.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	m, err := s.sess.Documents.Fetch(ctx, id)
	if err != nil {
		return err
	}
	doc := domain.DocumentFromManifest(m, s.now)
	if err := doc.NewDeletedVersion(); err != nil {
		return err
	}
	if err := s.sess.Documents.Update(ctx, id, doc.Manifest()); err != nil {
		return err
	}
	s.sess.Notify(ctx, DocumentDeleted, id)
	return nil
}

// DiffDocumentVersions renders a unified diff between the version in
// effect at fromWhen and the version in effect at toWhen. An empty toWhen
// diffs against the latest version, labelled "latest".
func (s *Service) DiffDocumentVersions(ctx context.Context, id, fromWhen, toWhen string) ([]byte, error) {
	m, err := s.sess.Documents.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := domain.DocumentFromManifest(m, s.now)

	fromData, err := doc.Data(ctx, -1, fromWhen, s.fetch, defaultTimeout)
	if err != nil {
		return nil, err
	}

	toLabel := toWhen
	if toLabel == "" {
		toLabel = "latest"
	}
	toData, err := doc.Data(ctx, -1, toWhen, s.fetch, defaultTimeout)
	if err != nil {
		return nil, err
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(fromData)),
		B:        difflib.SplitLines(string(toData)),
		FromFile: fromWhen,
		ToFile:   toLabel,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}
