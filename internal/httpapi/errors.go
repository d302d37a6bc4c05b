package httpapi

import (
	"errors"
	"net/http"

	"github.com/scieloorg/kernel-sub000/internal/domain"
)

// statusForError maps a domain sentinel error to the status code §7
// assigns it: DoesNotExist/DeletedVersion/UnknownAsset/MissingVersion are
// all "not found" at the HTTP boundary, AlreadyExists is a conflict, and
// the programmer-error validations (bad timestamp, subject area,
// publication year) are client errors.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrDoesNotExist),
		errors.Is(err, domain.ErrDeletedVersion),
		errors.Is(err, domain.ErrUnknownAsset),
		errors.Is(err, domain.ErrMissingVersion):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidTimestamp),
		errors.Is(err, domain.ErrInvalidSubjectArea),
		errors.Is(err, domain.ErrInvalidPublicationYear):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
