// Package domain implements the entity aggregates - Document,
// DocumentsBundle, Journal - that wrap the pure manifest algebra with
// invariants and time-indexed queries.
package domain

import "errors"

var (
	// ErrAlreadyExists is raised by the repository layer when a primary-key
	// insert collides with an existing entity.
	ErrAlreadyExists = errors.New("domain: already exists")
	// ErrDoesNotExist is raised when fetching or updating an entity that
	// isn't present.
	ErrDoesNotExist = errors.New("domain: does not exist")
	// ErrVersionAlreadySet is raised when a mutation would be a no-op
	// because the proposed version is identical to the latest one. Treated
	// as idempotent success at the HTTP boundary.
	ErrVersionAlreadySet = errors.New("domain: version already set")
	// ErrDeletedVersion is raised when attempting to mutate or read a
	// tombstoned document.
	ErrDeletedVersion = errors.New("domain: deleted version")
	// ErrUnknownAsset is raised when referencing an asset id absent from the
	// latest version.
	ErrUnknownAsset = errors.New("domain: unknown asset")
	// ErrMissingVersion is raised when a version index or timestamp has no
	// match in the document's history.
	ErrMissingVersion = errors.New("domain: missing version")
	// ErrInvalidTimestamp is raised when a timestamp fails the ISO-8601
	// pattern required by version_at.
	ErrInvalidTimestamp = errors.New("domain: invalid timestamp")
	// ErrInvalidSubjectArea is raised when setting subject_areas outside the
	// closed vocabulary.
	ErrInvalidSubjectArea = errors.New("domain: invalid subject area")
	// ErrInvalidPublicationYear is raised when publication_year doesn't
	// match \d{4}.
	ErrInvalidPublicationYear = errors.New("domain: invalid publication year")
)
