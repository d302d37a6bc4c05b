package manifest

import "errors"

// ErrItemAlreadyExists and ErrItemDoesNotExist are returned by the item
// operations below; sentinel here rather than in package domain because the
// algebra itself enforces uniqueness, not just the aggregate wrapping it.
var (
	ErrItemAlreadyExists = errors.New("manifest: item already exists")
	ErrItemDoesNotExist  = errors.New("manifest: item does not exist")
)

// MetadataEntry is one (timestamp, value) pair in a metadata field's
// history.
type MetadataEntry struct {
	Timestamp string      `bson:"timestamp" json:"timestamp"`
	Value     interface{} `bson:"value" json:"value"`
}

// BundleManifest backs both DocumentsBundle and Journal: an ordered,
// deduplicated list of item ids plus a map of append-only metadata
// histories. Journal additionally uses Components for its singleton-valued
// fields (ahead-of-print bundle id, provisional flag).
type BundleManifest struct {
	ID         string                   `bson:"_id" json:"id"`
	Created    string                   `bson:"created" json:"created"`
	Updated    string                   `bson:"updated" json:"updated"`
	Items      []string                 `bson:"items" json:"items"`
	Metadata   map[string][]MetadataEntry `bson:"metadata" json:"metadata"`
	Components map[string]string        `bson:"components,omitempty" json:"components,omitempty"`
}

// Clone returns a deep copy.
func (b BundleManifest) Clone() BundleManifest {
	nb := BundleManifest{ID: b.ID, Created: b.Created, Updated: b.Updated}
	nb.Items = append([]string(nil), b.Items...)
	if b.Metadata != nil {
		nb.Metadata = make(map[string][]MetadataEntry, len(b.Metadata))
		for k, v := range b.Metadata {
			nb.Metadata[k] = append([]MetadataEntry(nil), v...)
		}
	}
	if b.Components != nil {
		nb.Components = make(map[string]string, len(b.Components))
		for k, v := range b.Components {
			nb.Components[k] = v
		}
	}
	return nb
}

// NewBundle returns a bundle manifest with no items and both timestamps set
// to now().
func NewBundle(id string, now NowFunc) BundleManifest {
	ts := now()
	return BundleManifest{ID: id, Created: ts, Updated: ts, Items: []string{}, Metadata: map[string][]MetadataEntry{}}
}

// SetMetadata appends a (now(), value) entry to name's history and refreshes
// Updated.
func SetMetadata(b BundleManifest, name string, value interface{}, now NowFunc) BundleManifest {
	nb := b.Clone()
	ts := now()
	if nb.Metadata == nil {
		nb.Metadata = map[string][]MetadataEntry{}
	}
	nb.Metadata[name] = append(nb.Metadata[name], MetadataEntry{Timestamp: ts, Value: value})
	nb.Updated = ts
	return nb
}

// GetMetadata returns the most recent value set for name, or nil if name
// was never set.
func GetMetadata(b BundleManifest, name string) interface{} {
	entries := b.Metadata[name]
	if len(entries) == 0 {
		return nil
	}
	return entries[len(entries)-1].Value
}

// GetMetadataAll returns the full history for name, oldest first.
func GetMetadataAll(b BundleManifest, name string) []MetadataEntry {
	return append([]MetadataEntry(nil), b.Metadata[name]...)
}

func indexOf(items []string, id string) int {
	for i, item := range items {
		if item == id {
			return i
		}
	}
	return -1
}

// clampIndex mirrors Python list.insert(index, x) semantics: positive
// indices past the end clamp to the end; negative indices count from the
// end and clamp to 0 if they'd fall before it.
func clampIndex(index, length int) int {
	if index < 0 {
		index = length + index
		if index < 0 {
			index = 0
		}
		return index
	}
	if index > length {
		return length
	}
	return index
}

// AddItem appends item_id, refreshing Updated. Returns ErrItemAlreadyExists
// if the id is already present.
func AddItem(b BundleManifest, itemID string, now NowFunc) (BundleManifest, error) {
	if indexOf(b.Items, itemID) >= 0 {
		return b, ErrItemAlreadyExists
	}
	nb := b.Clone()
	nb.Items = append(nb.Items, itemID)
	nb.Updated = now()
	return nb, nil
}

// InsertItem inserts item_id at a clamped index. Returns ErrItemAlreadyExists
// if the id is already present.
func InsertItem(b BundleManifest, index int, itemID string, now NowFunc) (BundleManifest, error) {
	if indexOf(b.Items, itemID) >= 0 {
		return b, ErrItemAlreadyExists
	}
	nb := b.Clone()
	at := clampIndex(index, len(nb.Items))
	nb.Items = append(nb.Items, "")
	copy(nb.Items[at+1:], nb.Items[at:])
	nb.Items[at] = itemID
	nb.Updated = now()
	return nb, nil
}

// RemoveItem removes item_id. Returns ErrItemDoesNotExist if absent.
func RemoveItem(b BundleManifest, itemID string, now NowFunc) (BundleManifest, error) {
	idx := indexOf(b.Items, itemID)
	if idx < 0 {
		return b, ErrItemDoesNotExist
	}
	nb := b.Clone()
	nb.Items = append(nb.Items[:idx], nb.Items[idx+1:]...)
	nb.Updated = now()
	return nb, nil
}

// SetComponent sets a singleton-valued top-level field (e.g. Journal's "aop"
// component), refreshing Updated.
func SetComponent(b BundleManifest, name, value string, now NowFunc) BundleManifest {
	nb := b.Clone()
	if nb.Components == nil {
		nb.Components = map[string]string{}
	}
	nb.Components[name] = value
	nb.Updated = now()
	return nb
}

// GetComponent returns the current value of a component, or def if unset.
func GetComponent(b BundleManifest, name, def string) string {
	if v, ok := b.Components[name]; ok {
		return v
	}
	return def
}

// RemoveComponent deletes a component. Returns ErrItemDoesNotExist if unset.
func RemoveComponent(b BundleManifest, name string, now NowFunc) (BundleManifest, error) {
	if _, ok := b.Components[name]; !ok {
		return b, ErrItemDoesNotExist
	}
	nb := b.Clone()
	delete(nb.Components, name)
	nb.Updated = now()
	return nb, nil
}
