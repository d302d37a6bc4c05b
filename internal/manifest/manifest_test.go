package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clockFrom(timestamps ...string) NowFunc {
	i := -1
	return func() string {
		i++
		if i >= len(timestamps) {
			return timestamps[len(timestamps)-1]
		}
		return timestamps[i]
	}
}

func TestNewDocumentIsEmpty(t *testing.T) {
	m := NewDocument("d1")
	assert.Equal(t, "d1", m.ID)
	assert.Empty(t, m.Versions)
}

func TestAddVersionSeedsAssetsAndRecordsHistory(t *testing.T) {
	now := clockFrom("t0", "t1")
	m := NewDocument("d1")
	m = AddVersion(m, "u1.xml", map[string]string{"gf01": "a1.gif", "gf02": ""}, now)

	require.Len(t, m.Versions, 1)
	v := m.Versions[0]
	assert.Equal(t, "u1.xml", v.Data)
	assert.Equal(t, "t0", v.Timestamp)
	require.Contains(t, v.Assets, "gf01")
	require.Contains(t, v.Assets, "gf02")
	require.Len(t, v.Assets["gf01"], 1)
	assert.Equal(t, "a1.gif", v.Assets["gf01"][0].URI)
	assert.Empty(t, v.Assets["gf02"])
}

func TestAddVersionDoesNotMutateInput(t *testing.T) {
	now := clockFrom("t0")
	m := NewDocument("d1")
	before := len(m.Versions)
	_ = AddVersion(m, "u1.xml", map[string]string{}, now)
	assert.Equal(t, before, len(m.Versions))
}

func TestAddAssetVersionAppendsToLastVersion(t *testing.T) {
	now := clockFrom("t0", "t1")
	m := NewDocument("d1")
	m = AddVersion(m, "u1.xml", map[string]string{"gf01": ""}, now)

	m2, err := AddAssetVersion(m, "gf01", "a1.gif", now)
	require.NoError(t, err)
	assert.Len(t, m2.Versions[0].Assets["gf01"], 1)
	assert.Equal(t, "a1.gif", m2.Versions[0].Assets["gf01"][0].URI)
	assert.Empty(t, m.Versions[0].Assets["gf01"])
}

func TestAddAssetVersionUnknownAsset(t *testing.T) {
	now := clockFrom("t0")
	m := NewDocument("d1")
	m = AddVersion(m, "u1.xml", map[string]string{}, now)

	_, err := AddAssetVersion(m, "gf01", "a1.gif", now)
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestAddRenditionVersionCreatesThenAppends(t *testing.T) {
	now := clockFrom("t0", "t1", "t2")
	m := NewDocument("d1")
	m = AddVersion(m, "u1.xml", map[string]string{}, now)

	m = AddRenditionVersion(m, "doc.pdf", "v1.pdf", "application/pdf", "en", 1024, now)
	require.Len(t, m.Versions[0].Renditions, 1)
	assert.Len(t, m.Versions[0].Renditions[0].Data, 1)

	m = AddRenditionVersion(m, "doc.pdf", "v2.pdf", "application/pdf", "en", 2048, now)
	require.Len(t, m.Versions[0].Renditions, 1)
	assert.Len(t, m.Versions[0].Renditions[0].Data, 2)
}

func TestAddDeletedVersionAppendsTombstone(t *testing.T) {
	now := clockFrom("t0", "t1")
	m := NewDocument("d1")
	m = AddVersion(m, "u1.xml", map[string]string{}, now)
	m = AddDeletedVersion(m, now)

	require.Len(t, m.Versions, 2)
	assert.True(t, m.Versions[1].Deleted)
}
