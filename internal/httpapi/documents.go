package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/scieloorg/kernel-sub000/internal/domain"
	"github.com/scieloorg/kernel-sub000/internal/service"
)

// documentsHandler dispatches every /documents/... route by hand-parsing
// the path, the net/http.ServeMux in this Go version having no pattern
// variables of its own.
func documentsHandler(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/documents/")
		parts := strings.Split(strings.Trim(rest, "/"), "/")
		if len(parts) == 0 || parts[0] == "" {
			writeError(w, http.StatusNotFound, "missing document id")
			return
		}
		id := parts[0]

		switch {
		case len(parts) == 1:
			switch r.Method {
			case http.MethodGet:
				handleDocumentGet(svc, w, r, id)
			case http.MethodPut:
				handleDocumentPut(svc, w, r, id)
			case http.MethodDelete:
				handleDocumentDelete(svc, w, r, id)
			default:
				writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			}
		case len(parts) == 2 && parts[1] == "manifest" && r.Method == http.MethodGet:
			handleManifestGet(svc, w, r, id)
		case len(parts) == 2 && parts[1] == "assets" && r.Method == http.MethodGet:
			handleAssetsListGet(svc, w, r, id)
		case len(parts) == 3 && parts[1] == "assets" && r.Method == http.MethodPut:
			handleAssetPut(svc, w, r, id, parts[2])
		case len(parts) == 2 && parts[1] == "diff" && r.Method == http.MethodGet:
			handleDiffGet(svc, w, r, id)
		case len(parts) == 2 && parts[1] == "front" && r.Method == http.MethodGet:
			handleFrontGet(svc, w, r, id)
		default:
			writeError(w, http.StatusNotFound, "not found")
		}
	}
}

func handleDocumentGet(svc *service.Service, w http.ResponseWriter, r *http.Request, id string) {
	when := r.URL.Query().Get("when")
	body, err := svc.FetchDocumentData(r.Context(), id, -1, when)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write(body)
}

type registerDocumentRequest struct {
	Data string `json:"data"`
}

func handleDocumentPut(svc *service.Service, w http.ResponseWriter, r *http.Request, id string) {
	var body registerDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Data == "" {
		writeError(w, http.StatusBadRequest, "missing data url")
		return
	}

	err := svc.RegisterDocument(r.Context(), id, body.Data)
	if err == nil {
		w.WriteHeader(http.StatusCreated)
		return
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		writeError(w, statusForError(err), err.Error())
		return
	}

	err = svc.RegisterDocumentVersion(r.Context(), id, body.Data)
	if err != nil && !errors.Is(err, domain.ErrVersionAlreadySet) {
		writeError(w, statusForError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleDocumentDelete(svc *service.Service, w http.ResponseWriter, r *http.Request, id string) {
	err := svc.DeleteDocument(r.Context(), id)
	if err != nil && !errors.Is(err, domain.ErrVersionAlreadySet) {
		writeError(w, statusForError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleManifestGet(svc *service.Service, w http.ResponseWriter, r *http.Request, id string) {
	m, err := svc.FetchDocumentManifest(r.Context(), id)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// slugify produces a URL-safe identifier from an asset id, in the
// original's own words a way of avoiding dots and slashes in a URL path
// segment. No third-party slug library appears anywhere in the pack, so
// this is a deliberate minimal stdlib implementation.
func slugify(s string) string {
	s = strings.ToLower(s)
	s = slugInvalid.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

type assetListEntry struct {
	Slug string `json:"slug"`
	ID   string `json:"id"`
	URL  string `json:"url"`
}

func handleAssetsListGet(svc *service.Service, w http.ResponseWriter, r *http.Request, id string) {
	assets, err := svc.FetchAssetsList(r.Context(), id)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	out := make([]assetListEntry, 0, len(assets))
	for assetID, uri := range assets {
		out = append(out, assetListEntry{Slug: slugify(assetID), ID: assetID, URL: uri})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

type registerAssetRequest struct {
	AssetURL string `json:"asset_url"`
}

func handleAssetPut(svc *service.Service, w http.ResponseWriter, r *http.Request, id, slug string) {
	assets, err := svc.FetchAssetsList(r.Context(), id)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	var assetID string
	for candidate := range assets {
		if slugify(candidate) == slug {
			assetID = candidate
			break
		}
	}
	if assetID == "" {
		writeError(w, http.StatusNotFound, "unknown asset slug")
		return
	}

	var body registerAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AssetURL == "" {
		writeError(w, http.StatusBadRequest, "missing asset_url")
		return
	}

	err = svc.RegisterAssetVersion(r.Context(), id, assetID, body.AssetURL)
	if err != nil && !errors.Is(err, domain.ErrVersionAlreadySet) {
		writeError(w, statusForError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleDiffGet(svc *service.Service, w http.ResponseWriter, r *http.Request, id string) {
	fromWhen := r.URL.Query().Get("from_when")
	if fromWhen == "" {
		writeError(w, http.StatusBadRequest, "from_when is required")
		return
	}
	toWhen := r.URL.Query().Get("to_when")

	diff, err := svc.DiffDocumentVersions(r.Context(), id, fromWhen, toWhen)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(diff)
}

func handleFrontGet(svc *service.Service, w http.ResponseWriter, r *http.Request, id string) {
	when := r.URL.Query().Get("when")
	body, err := svc.FetchDocumentData(r.Context(), id, -1, when)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sanitizeFront(body))
}
