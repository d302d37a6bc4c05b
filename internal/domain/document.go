package domain

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/scieloorg/kernel-sub000/internal/manifest"
	"github.com/scieloorg/kernel-sub000/internal/objectstore"
)

// timestampPattern matches the ISO-8601 subset version_at accepts: a date
// with a time component down to microseconds, seconds and fraction both
// optional. Capture groups let normalizeTimestamp rebuild a fixed-width
// form for comparison against stored timestamps, which are always
// formatted to 6 fraction digits by manifest.UTCNow.
var timestampPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})T(\d{2}):(\d{2})(?::(\d{2})(?:\.(\d{1,6}))?)?Z$`)
var dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// AssetsFetcher retrieves a document's XML body and the asset references it
// carries, used both to seed carry-forward on NewVersion and to resolve
// hrefs in Data.
type AssetsFetcher func(ctx context.Context, url string, timeout time.Duration) ([]byte, []objectstore.AssetRef, error)

// MaterializedRendition is a rendition collapsed to its latest data entry.
type MaterializedRendition struct {
	Filename  string
	MimeType  string
	Lang      string
	URL       string
	SizeBytes int64
}

// MaterializedVersion is a manifest.Version collapsed to the single latest
// URI per asset and the single latest entry per rendition, the shape the
// HTTP surface and the XML rewriter consume.
type MaterializedVersion struct {
	Data       string
	Timestamp  string
	Deleted    bool
	Assets     map[string]string
	Renditions []MaterializedRendition
}

// Document is the aggregate wrapping manifest.DocumentManifest with the
// invariants and time-indexed queries of §4.2.
type Document struct {
	manifest manifest.DocumentManifest
	now      manifest.NowFunc
}

// NewDocument starts a brand new, versionless document.
func NewDocument(id string, now manifest.NowFunc) *Document {
	if now == nil {
		now = manifest.UTCNow
	}
	return &Document{manifest: manifest.NewDocument(id), now: now}
}

// DocumentFromManifest wraps a manifest fetched from storage.
func DocumentFromManifest(m manifest.DocumentManifest, now manifest.NowFunc) *Document {
	if now == nil {
		now = manifest.UTCNow
	}
	return &Document{manifest: m, now: now}
}

// ID returns the document's identifier.
func (d *Document) ID() string { return d.manifest.ID }

// Manifest returns a defensive copy of the underlying manifest, e.g. for
// persistence.
func (d *Document) Manifest() manifest.DocumentManifest { return d.manifest.Clone() }

func latestURI(history []manifest.AssetHistoryEntry) string {
	if len(history) == 0 {
		return ""
	}
	return history[len(history)-1].URI
}

// latestURIAt returns the URI of the history entry with the greatest
// Timestamp not after target, or "" if none qualifies. The whole history is
// scanned rather than stopping at the first later entry, and ties resolve
// to the last-appended entry.
func latestURIAt(history []manifest.AssetHistoryEntry, target string) string {
	uri, best := "", ""
	found := false
	for _, entry := range history {
		if entry.Timestamp > target {
			continue
		}
		if !found || entry.Timestamp >= best {
			uri, best, found = entry.URI, entry.Timestamp, true
		}
	}
	return uri
}

// latestRenditionDataAt returns the rendition data entry with the greatest
// Timestamp not after target, and whether one qualified. Like latestURIAt it
// scans the whole history and resolves ties to the last-appended entry.
func latestRenditionDataAt(data []manifest.RenditionDataEntry, target string) (manifest.RenditionDataEntry, bool) {
	var selected manifest.RenditionDataEntry
	found := false
	for _, entry := range data {
		if entry.Timestamp > target {
			continue
		}
		if !found || entry.Timestamp >= selected.Timestamp {
			selected = entry
			found = true
		}
	}
	return selected, found
}

func materialize(v manifest.Version) MaterializedVersion {
	mv := MaterializedVersion{
		Data:      v.Data,
		Timestamp: v.Timestamp,
		Deleted:   v.Deleted,
	}
	if v.Deleted {
		return mv
	}
	mv.Assets = make(map[string]string, len(v.Assets))
	for id, history := range v.Assets {
		mv.Assets[id] = latestURI(history)
	}
	for _, r := range v.Renditions {
		if len(r.Data) == 0 {
			continue
		}
		last := r.Data[len(r.Data)-1]
		mv.Renditions = append(mv.Renditions, MaterializedRendition{
			Filename:  r.Filename,
			MimeType:  r.MimeType,
			Lang:      r.Lang,
			URL:       last.URL,
			SizeBytes: last.SizeBytes,
		})
	}
	return mv
}

// materializeAt collapses v the same way materialize does, except each
// asset's URI and each rendition's data entry is independently selected as
// the one with the greatest Timestamp not after target - rather than the
// version's absolute latest - since new_asset_version/new_rendition_version
// append to the current latest Document version in place, so a single
// version's histories can straddle a requested point in time.
func materializeAt(v manifest.Version, target string) MaterializedVersion {
	mv := MaterializedVersion{
		Data:      v.Data,
		Timestamp: v.Timestamp,
		Deleted:   v.Deleted,
	}
	if v.Deleted {
		return mv
	}
	mv.Assets = make(map[string]string, len(v.Assets))
	for id, history := range v.Assets {
		mv.Assets[id] = latestURIAt(history, target)
	}
	for _, r := range v.Renditions {
		entry, ok := latestRenditionDataAt(r.Data, target)
		if !ok {
			continue
		}
		mv.Renditions = append(mv.Renditions, MaterializedRendition{
			Filename:  r.Filename,
			MimeType:  r.MimeType,
			Lang:      r.Lang,
			URL:       entry.URL,
			SizeBytes: entry.SizeBytes,
		})
	}
	return mv
}

// Version returns the version at index, Python-style: negative indices
// count from the end. Out-of-range indices report ErrMissingVersion.
func (d *Document) Version(index int) (MaterializedVersion, error) {
	versions := d.manifest.Versions
	n := len(versions)
	idx := index
	if idx < 0 {
		idx = n + idx
	}
	if idx < 0 || idx >= n {
		return MaterializedVersion{}, ErrMissingVersion
	}
	return materialize(versions[idx]), nil
}

// normalizeTimestamp validates timestamp against the pattern version_at
// accepts and rewrites it to the same fixed-width (6 fraction digits, seconds
// always present) form manifest.UTCNow produces, so lexical comparison
// against stored timestamps agrees with chronological order regardless of
// how many fraction digits or which optional components the caller supplied.
// A bare date pads out to the last instant of that day.
func normalizeTimestamp(timestamp string) (string, error) {
	if dateOnlyPattern.MatchString(timestamp) {
		return timestamp + "T23:59:59.999999Z", nil
	}
	m := timestampPattern.FindStringSubmatch(timestamp)
	if m == nil {
		return "", ErrInvalidTimestamp
	}
	date, hour, minute, second, fraction := m[1], m[2], m[3], m[4], m[5]
	if second == "" {
		second = "00"
	}
	fraction += strings.Repeat("0", 6-len(fraction))
	return date + "T" + hour + ":" + minute + ":" + second + "." + fraction + "Z", nil
}

// VersionAt returns the version in effect at timestamp: the version with
// the greatest Timestamp not after it. Versions are stored in ascending
// order, so a plain forward scan with a non-strict comparison deterministically
// keeps the last of any tied timestamps, matching the invariant that ties
// resolve to the most recently appended version rather than the first.
func (d *Document) VersionAt(timestamp string) (MaterializedVersion, error) {
	target, err := normalizeTimestamp(timestamp)
	if err != nil {
		return MaterializedVersion{}, err
	}
	var selected *manifest.Version
	for i := range d.manifest.Versions {
		v := &d.manifest.Versions[i]
		if v.Timestamp > target {
			continue
		}
		if selected == nil || v.Timestamp >= selected.Timestamp {
			selected = v
		}
	}
	if selected == nil {
		return MaterializedVersion{}, ErrMissingVersion
	}
	return materializeAt(*selected, target), nil
}

// Data fetches the XML body for the selected version and rewrites the
// xlink:href of every asset-bearing element to the asset URI recorded for
// that id in that version.
// versionAt takes precedence over versionIndex when both are given.
func (d *Document) Data(ctx context.Context, versionIndex int, versionAt string, fetch AssetsFetcher, timeout time.Duration) ([]byte, error) {
	var (
		mv  MaterializedVersion
		err error
	)
	if versionAt != "" {
		mv, err = d.VersionAt(versionAt)
	} else {
		mv, err = d.Version(versionIndex)
	}
	if err != nil {
		return nil, err
	}
	if mv.Deleted {
		return nil, ErrDeletedVersion
	}
	body, _, err := fetch(ctx, mv.Data, timeout)
	if err != nil {
		return nil, err
	}
	return objectstore.RewriteAssets(body, func(href string) string {
		return mv.Assets[href]
	}), nil
}

// NewVersion registers a new live version for dataURL, carrying forward
// each discovered asset's most recent known URI from the prior version.
func (d *Document) NewVersion(ctx context.Context, dataURL string, fetch AssetsFetcher, timeout time.Duration) error {
	versions := d.manifest.Versions
	var last *manifest.Version
	if n := len(versions); n > 0 {
		last = &versions[n-1]
		if !last.Deleted && last.Data == dataURL {
			return ErrVersionAlreadySet
		}
	}

	_, refs, err := fetch(ctx, dataURL, timeout)
	if err != nil {
		return err
	}

	seeds := make(map[string]string, len(refs))
	for _, r := range refs {
		seeds[r.Href] = ""
	}
	if last != nil && !last.Deleted {
		for id := range seeds {
			seeds[id] = latestURI(last.Assets[id])
		}
	}

	d.manifest = manifest.AddVersion(d.manifest, dataURL, seeds, d.now)
	return nil
}

// NewAssetVersion records a new URI for an asset already known to the
// latest version.
func (d *Document) NewAssetVersion(assetID, uri string) error {
	versions := d.manifest.Versions
	if len(versions) == 0 {
		return ErrUnknownAsset
	}
	if versions[len(versions)-1].Deleted {
		return ErrDeletedVersion
	}
	m, err := manifest.AddAssetVersion(d.manifest, assetID, uri, d.now)
	if err != nil {
		return ErrUnknownAsset
	}
	d.manifest = m
	return nil
}

// NewRenditionVersion records a new rendition file. An exact repeat of the
// latest entry for the same (filename, mimetype, lang) is treated as
// ErrVersionAlreadySet rather than appended again.
func (d *Document) NewRenditionVersion(filename, dataURL, mimetype, lang string, sizeBytes int64) error {
	versions := d.manifest.Versions
	if len(versions) == 0 {
		return ErrMissingVersion
	}
	last := versions[len(versions)-1]
	if last.Deleted {
		return ErrDeletedVersion
	}
	for _, r := range last.Renditions {
		if r.Filename != filename || r.MimeType != mimetype || r.Lang != lang || len(r.Data) == 0 {
			continue
		}
		latest := r.Data[len(r.Data)-1]
		if latest.URL == dataURL && latest.SizeBytes == sizeBytes {
			return ErrVersionAlreadySet
		}
	}
	d.manifest = manifest.AddRenditionVersion(d.manifest, filename, dataURL, mimetype, lang, sizeBytes, d.now)
	return nil
}

// NewDeletedVersion appends a tombstone. Deleting an already-deleted
// document is idempotent.
func (d *Document) NewDeletedVersion() error {
	if n := len(d.manifest.Versions); n > 0 && d.manifest.Versions[n-1].Deleted {
		return ErrVersionAlreadySet
	}
	d.manifest = manifest.AddDeletedVersion(d.manifest, d.now)
	return nil
}
