package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/scieloorg/kernel-sub000/internal/corelog"
	"github.com/scieloorg/kernel-sub000/internal/manifest"
	"github.com/scieloorg/kernel-sub000/internal/metrics"
	"github.com/scieloorg/kernel-sub000/internal/session"
	"github.com/scieloorg/kernel-sub000/internal/store/mongostore"
)

// logChange appends one change-log entry. Failures are logged and
// swallowed here too: Notify already isolates subscriber panics, and a
// failed log_change must not unwind the mutation that already succeeded.
func logChange(ctx context.Context, sess *session.Session, now manifest.NowFunc, entity, id string, deleted bool) {
	c := mongostore.Change{
		Timestamp: now(),
		Entity:    entity,
		ID:        id,
		Deleted:   deleted,
	}
	if err := sess.Changes.Add(ctx, c); err != nil {
		corelog.Error("failed to append change-log entry",
			zap.String("entity", entity),
			zap.String("id", id),
			zap.Error(err),
		)
		return
	}
	metrics.ChangesAppended.WithLabelValues(entity).Inc()
}

// InstallDefaultSubscribers wires one change-log subscriber per event in
// the taxonomy, tagging each entry with the entity kind it belongs to and
// marking DOCUMENT_DELETED entries as deletions.
func InstallDefaultSubscribers(sess *session.Session, now manifest.NowFunc) {
	subscribe := func(event session.Event, entity string, deleted bool) {
		sess.Observe(event, func(ctx context.Context, ev session.Event, data interface{}) {
			id, _ := data.(string)
			logChange(ctx, sess, now, entity, id, deleted)
		})
	}

	subscribe(DocumentRegistered, "Document", false)
	subscribe(DocumentVersionRegistered, "Document", false)
	subscribe(DocumentAssetVersionRegistered, "Document", false)
	subscribe(DocumentRenditionVersionAdded, "DocumentRendition", false)
	subscribe(DocumentDeleted, "Document", true)

	subscribe(DocumentsBundleCreated, "DocumentsBundle", false)
	subscribe(DocumentsBundleMetadataUpdated, "DocumentsBundle", false)
	subscribe(DocumentsBundleDocumentAdded, "DocumentsBundle", false)
	subscribe(DocumentsBundleDocumentInserted, "DocumentsBundle", false)
	subscribe(DocumentsBundleDocumentRemoved, "DocumentsBundle", false)
	subscribe(DocumentsBundleDocumentsUpdated, "DocumentsBundle", false)

	subscribe(JournalCreated, "Journal", false)
	subscribe(JournalMetadataUpdated, "Journal", false)
	subscribe(JournalIssueAdded, "Journal", false)
	subscribe(JournalIssueInserted, "Journal", false)
	subscribe(JournalIssuesUpdated, "Journal", false)
	subscribe(JournalIssueRemoved, "Journal", false)
	subscribe(JournalAheadOfPrintBundleSet, "Journal", false)
	subscribe(JournalAheadOfPrintBundleRemoved, "Journal", false)
}

// FetchChanges returns up to limit change-log entries after since, in
// ascending timestamp order.
func FetchChanges(ctx context.Context, sess *session.Session, since string, limit int64) ([]mongostore.Change, error) {
	return sess.Changes.Filter(ctx, since, limit)
}
