// Package manifest implements the pure, deterministic constructors that
// produce new document and bundle manifests from old ones. Every function
// here is a value-in, value-out transform: callers' manifests are never
// mutated, only copied and extended.
package manifest

import (
	"errors"
	"time"
)

// ErrUnknownAsset is returned by AddAssetVersion when the target asset id is
// absent from the latest version's asset map.
var ErrUnknownAsset = errors.New("manifest: unknown asset")

// NowFunc supplies the current UTC timestamp. Production code uses UTCNow;
// tests inject a deterministic clock so assertions on ordering don't race
// the wall clock.
type NowFunc func() string

// UTCNow returns the current time as an ISO-8601 UTC timestamp with fixed
// microsecond precision. The width is fixed (rather than the variable-length
// fraction Python's datetime.isoformat produces) so that lexical string
// comparison of timestamps - relied on throughout this package and by the
// change log's ordering guarantee - agrees with chronological order.
func UTCNow() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
}

// AssetHistoryEntry is one (timestamp, uri) pair in an asset's history.
type AssetHistoryEntry struct {
	Timestamp string `bson:"timestamp" json:"timestamp"`
	URI       string `bson:"uri" json:"uri"`
}

// RenditionDataEntry is one (timestamp, url, size_bytes) triple in a
// rendition's history.
type RenditionDataEntry struct {
	Timestamp string `bson:"timestamp" json:"timestamp"`
	URL       string `bson:"url" json:"url"`
	SizeBytes int64  `bson:"size_bytes" json:"size_bytes"`
}

// Rendition is an alternative serialised form of a document (e.g. a PDF) in
// a given language, with its own append-only history of URLs.
type Rendition struct {
	Filename string               `bson:"filename" json:"filename"`
	MimeType string               `bson:"mimetype" json:"mimetype"`
	Lang     string               `bson:"lang" json:"lang"`
	Data     []RenditionDataEntry `bson:"data" json:"data"`
}

// Version is one entry in a document's append-only version history. A
// tombstone (Deleted true) carries no data/assets/renditions. Extra holds
// any bson keys not known to this struct so round-trips through MongoDB
// don't lose forward-compatible fields added by a future schema revision.
type Version struct {
	Data       string                        `bson:"data,omitempty" json:"data,omitempty"`
	Timestamp  string                        `bson:"timestamp" json:"timestamp"`
	Assets     map[string][]AssetHistoryEntry `bson:"assets,omitempty" json:"assets,omitempty"`
	Renditions []Rendition                   `bson:"renditions,omitempty" json:"renditions,omitempty"`
	Deleted    bool                          `bson:"deleted,omitempty" json:"deleted,omitempty"`
	Extra      map[string]interface{}        `bson:",inline" json:"-"`
}

func (v Version) clone() Version {
	nv := Version{
		Data:      v.Data,
		Timestamp: v.Timestamp,
		Deleted:   v.Deleted,
	}
	if v.Assets != nil {
		nv.Assets = make(map[string][]AssetHistoryEntry, len(v.Assets))
		for k, history := range v.Assets {
			nv.Assets[k] = append([]AssetHistoryEntry(nil), history...)
		}
	}
	if v.Renditions != nil {
		nv.Renditions = make([]Rendition, len(v.Renditions))
		for i, r := range v.Renditions {
			nv.Renditions[i] = Rendition{
				Filename: r.Filename,
				MimeType: r.MimeType,
				Lang:     r.Lang,
				Data:     append([]RenditionDataEntry(nil), r.Data...),
			}
		}
	}
	if v.Extra != nil {
		nv.Extra = make(map[string]interface{}, len(v.Extra))
		for k, val := range v.Extra {
			nv.Extra[k] = val
		}
	}
	return nv
}

// DocumentManifest is the canonical, append-only description of a
// document's state over time.
type DocumentManifest struct {
	ID       string    `bson:"_id" json:"id"`
	Versions []Version `bson:"versions" json:"versions"`
}

// Clone returns a deep copy so the receiver's own versions list is never
// aliased into a manifest returned to a caller.
func (m DocumentManifest) Clone() DocumentManifest {
	nm := DocumentManifest{ID: m.ID}
	if m.Versions != nil {
		nm.Versions = make([]Version, len(m.Versions))
		for i, v := range m.Versions {
			nm.Versions[i] = v.clone()
		}
	}
	return nm
}

// NewDocument returns a manifest with no versions for the given id.
func NewDocument(id string) DocumentManifest {
	return DocumentManifest{ID: id, Versions: []Version{}}
}

func newLiveVersion(dataURI string, assetIDs []string, now NowFunc) Version {
	assets := make(map[string][]AssetHistoryEntry, len(assetIDs))
	for _, id := range assetIDs {
		assets[id] = []AssetHistoryEntry{}
	}
	return Version{
		Data:       dataURI,
		Assets:     assets,
		Renditions: []Rendition{},
		Timestamp:  now(),
	}
}

// AddVersion appends a new live version. assets maps each discovered asset
// id to its seed URI (the carry-forward value computed by the caller); an
// empty seed leaves that asset's history empty. Every non-empty seed
// produces one (now(), uri) entry in that asset's history, each stamped
// with its own call to now - mirroring the original's per-asset timestamp
// assignment rather than reusing the version's own timestamp.
func AddVersion(m DocumentManifest, dataURI string, assets map[string]string, now NowFunc) DocumentManifest {
	nm := m.Clone()
	ids := make([]string, 0, len(assets))
	for id := range assets {
		ids = append(ids, id)
	}
	version := newLiveVersion(dataURI, ids, now)
	for id, uri := range assets {
		if uri == "" {
			continue
		}
		version.Assets[id] = append(version.Assets[id], AssetHistoryEntry{Timestamp: now(), URI: uri})
	}
	nm.Versions = append(nm.Versions, version)
	return nm
}

// AddAssetVersion appends (now(), uri) to the last version's history for
// assetID. Returns ErrUnknownAsset if assetID isn't a key of the last
// version's asset map, or if there is no version at all.
func AddAssetVersion(m DocumentManifest, assetID, uri string, now NowFunc) (DocumentManifest, error) {
	if len(m.Versions) == 0 {
		return m, ErrUnknownAsset
	}
	nm := m.Clone()
	last := len(nm.Versions) - 1
	if _, ok := nm.Versions[last].Assets[assetID]; !ok {
		return m, ErrUnknownAsset
	}
	nm.Versions[last].Assets[assetID] = append(nm.Versions[last].Assets[assetID], AssetHistoryEntry{Timestamp: now(), URI: uri})
	return nm, nil
}

// AddRenditionVersion selects the rendition matching (filename, lang,
// mimetype) in the latest version, appending one if none matches, then
// appends a new data entry to it.
func AddRenditionVersion(m DocumentManifest, filename, dataURI, mimetype, lang string, sizeBytes int64, now NowFunc) DocumentManifest {
	nm := m.Clone()
	if len(nm.Versions) == 0 {
		nm.Versions = append(nm.Versions, Version{Timestamp: now()})
	}
	last := len(nm.Versions) - 1
	renditions := nm.Versions[last].Renditions
	var selected *Rendition
	for i := range renditions {
		r := &renditions[i]
		if r.Filename == filename && r.Lang == lang && r.MimeType == mimetype {
			selected = r
			break
		}
	}
	if selected == nil {
		renditions = append(renditions, Rendition{Filename: filename, MimeType: mimetype, Lang: lang})
		nm.Versions[last].Renditions = renditions
		selected = &nm.Versions[last].Renditions[len(renditions)-1]
	}
	selected.Data = append(selected.Data, RenditionDataEntry{Timestamp: now(), URL: dataURI, SizeBytes: sizeBytes})
	return nm
}

// AddDeletedVersion appends a tombstone version.
func AddDeletedVersion(m DocumentManifest, now NowFunc) DocumentManifest {
	nm := m.Clone()
	nm.Versions = append(nm.Versions, Version{Deleted: true, Timestamp: now()})
	return nm
}
