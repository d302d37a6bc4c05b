package domain

import (
	"regexp"

	"github.com/scieloorg/kernel-sub000/internal/manifest"
)

var publicationYearPattern = regexp.MustCompile(`^\d{4}$`)

// DocumentsBundleData is a DocumentsBundle collapsed to its current values,
// the shape the HTTP surface serves.
type DocumentsBundleData struct {
	ID              string
	Created         string
	Updated         string
	Items           []string
	PublicationYear string
	Volume          string
	Number          string
	Supplement      string
	Titles          []map[string]interface{}
}

// DocumentsBundle is the aggregate wrapping manifest.BundleManifest with
// the typed metadata accessors of §4.3.
type DocumentsBundle struct {
	manifest manifest.BundleManifest
	now      manifest.NowFunc
}

// NewDocumentsBundle starts a brand new, empty bundle.
func NewDocumentsBundle(id string, now manifest.NowFunc) *DocumentsBundle {
	if now == nil {
		now = manifest.UTCNow
	}
	return &DocumentsBundle{manifest: manifest.NewBundle(id, now), now: now}
}

// DocumentsBundleFromManifest wraps a manifest fetched from storage.
func DocumentsBundleFromManifest(m manifest.BundleManifest, now manifest.NowFunc) *DocumentsBundle {
	if now == nil {
		now = manifest.UTCNow
	}
	return &DocumentsBundle{manifest: m, now: now}
}

func (b *DocumentsBundle) ID() string { return b.manifest.ID }

func (b *DocumentsBundle) Manifest() manifest.BundleManifest { return b.manifest.Clone() }

func (b *DocumentsBundle) Created() string { return b.manifest.Created }

func (b *DocumentsBundle) Updated() string { return b.manifest.Updated }

// PublicationYear returns the most recently set publication_year, or "" if
// never set.
func (b *DocumentsBundle) PublicationYear() string {
	v, _ := manifest.GetMetadata(b.manifest, "publication_year").(string)
	return v
}

// SetPublicationYear validates year against \d{4} before recording it.
func (b *DocumentsBundle) SetPublicationYear(year string) error {
	if !publicationYearPattern.MatchString(year) {
		return ErrInvalidPublicationYear
	}
	b.manifest = manifest.SetMetadata(b.manifest, "publication_year", year, b.now)
	return nil
}

func (b *DocumentsBundle) Volume() string {
	v, _ := manifest.GetMetadata(b.manifest, "volume").(string)
	return v
}

func (b *DocumentsBundle) SetVolume(volume string) {
	b.manifest = manifest.SetMetadata(b.manifest, "volume", volume, b.now)
}

func (b *DocumentsBundle) Number() string {
	v, _ := manifest.GetMetadata(b.manifest, "number").(string)
	return v
}

func (b *DocumentsBundle) SetNumber(number string) {
	b.manifest = manifest.SetMetadata(b.manifest, "number", number, b.now)
}

func (b *DocumentsBundle) Supplement() string {
	v, _ := manifest.GetMetadata(b.manifest, "supplement").(string)
	return v
}

func (b *DocumentsBundle) SetSupplement(supplement string) {
	b.manifest = manifest.SetMetadata(b.manifest, "supplement", supplement, b.now)
}

func (b *DocumentsBundle) Titles() []map[string]interface{} {
	v, _ := manifest.GetMetadata(b.manifest, "titles").([]map[string]interface{})
	return v
}

func (b *DocumentsBundle) SetTitles(titles []map[string]interface{}) {
	b.manifest = manifest.SetMetadata(b.manifest, "titles", titles, b.now)
}

// Documents returns the bundle's ordered, unique item ids.
func (b *DocumentsBundle) Documents() []string {
	items := make([]string, len(b.manifest.Items))
	copy(items, b.manifest.Items)
	return items
}

// AddDocument appends id to the end of the item list.
func (b *DocumentsBundle) AddDocument(id string) error {
	m, err := manifest.AddItem(b.manifest, id, b.now)
	if err != nil {
		return translateItemErr(err)
	}
	b.manifest = m
	return nil
}

// InsertDocument inserts id at index, with Python list.insert clamp
// semantics for out-of-range indices.
func (b *DocumentsBundle) InsertDocument(index int, id string) error {
	m, err := manifest.InsertItem(b.manifest, index, id, b.now)
	if err != nil {
		return translateItemErr(err)
	}
	b.manifest = m
	return nil
}

// RemoveDocument removes id from the item list.
func (b *DocumentsBundle) RemoveDocument(id string) error {
	m, err := manifest.RemoveItem(b.manifest, id, b.now)
	if err != nil {
		return translateItemErr(err)
	}
	b.manifest = m
	return nil
}

// UpdateDocuments replaces the entire item list, removing every current
// item and re-adding each of ids in order.
func (b *DocumentsBundle) UpdateDocuments(ids []string) error {
	for _, id := range b.Documents() {
		if err := b.RemoveDocument(id); err != nil {
			return err
		}
	}
	for _, id := range ids {
		if err := b.AddDocument(id); err != nil {
			return err
		}
	}
	return nil
}

func translateItemErr(err error) error {
	switch err {
	case manifest.ErrItemAlreadyExists:
		return ErrAlreadyExists
	case manifest.ErrItemDoesNotExist:
		return ErrDoesNotExist
	default:
		return err
	}
}

// Data collapses the bundle to its current values for the HTTP surface.
func (b *DocumentsBundle) Data() DocumentsBundleData {
	return DocumentsBundleData{
		ID:              b.manifest.ID,
		Created:         b.manifest.Created,
		Updated:         b.manifest.Updated,
		Items:           b.Documents(),
		PublicationYear: b.PublicationYear(),
		Volume:          b.Volume(),
		Number:          b.Number(),
		Supplement:      b.Supplement(),
		Titles:          b.Titles(),
	}
}
