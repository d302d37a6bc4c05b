package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scieloorg/kernel-sub000/internal/manifest"
	"github.com/scieloorg/kernel-sub000/internal/objectstore"
)

func clockFrom(timestamps ...string) manifest.NowFunc {
	i := -1
	return func() string {
		i++
		if i >= len(timestamps) {
			return timestamps[len(timestamps)-1]
		}
		return timestamps[i]
	}
}

func fetcherFor(body []byte, refs []objectstore.AssetRef) AssetsFetcher {
	return func(ctx context.Context, url string, timeout time.Duration) ([]byte, []objectstore.AssetRef, error) {
		return body, refs, nil
	}
}

func TestNewVersionSeedsAssetsFromXML(t *testing.T) {
	now := clockFrom("2026-01-01T00:00:00.000000Z")
	doc := NewDocument("d1", now)
	fetch := fetcherFor([]byte(`<article/>`), []objectstore.AssetRef{{Href: "gf01.gif"}})

	err := doc.NewVersion(context.Background(), "v1.xml", fetch, time.Second)
	require.NoError(t, err)

	v, err := doc.Version(0)
	require.NoError(t, err)
	assert.Equal(t, "v1.xml", v.Data)
	assert.Equal(t, "", v.Assets["gf01.gif"])
}

func TestNewVersionCarriesForwardLatestAssetURI(t *testing.T) {
	now := clockFrom(
		"2026-01-01T00:00:00.000000Z",
		"2026-01-02T00:00:00.000000Z",
		"2026-01-03T00:00:00.000000Z",
	)
	doc := NewDocument("d1", now)
	fetch := fetcherFor(nil, []objectstore.AssetRef{{Href: "gf01.gif"}})

	require.NoError(t, doc.NewVersion(context.Background(), "v1.xml", fetch, time.Second))
	require.NoError(t, doc.NewAssetVersion("gf01.gif", "a1.gif"))
	require.NoError(t, doc.NewVersion(context.Background(), "v2.xml", fetch, time.Second))

	v, err := doc.Version(-1)
	require.NoError(t, err)
	assert.Equal(t, "a1.gif", v.Assets["gf01.gif"])
}

func TestNewVersionRejectsRepeatOfLatest(t *testing.T) {
	now := clockFrom("2026-01-01T00:00:00.000000Z")
	doc := NewDocument("d1", now)
	fetch := fetcherFor(nil, nil)
	require.NoError(t, doc.NewVersion(context.Background(), "v1.xml", fetch, time.Second))

	err := doc.NewVersion(context.Background(), "v1.xml", fetch, time.Second)
	assert.ErrorIs(t, err, ErrVersionAlreadySet)
}

func TestVersionOutOfRangeIsMissingVersion(t *testing.T) {
	doc := NewDocument("d1", clockFrom("t0"))
	_, err := doc.Version(0)
	assert.ErrorIs(t, err, ErrMissingVersion)
}

func TestVersionAtPicksLastOfTies(t *testing.T) {
	now := clockFrom(
		"2026-01-01T00:00:00.000000Z",
		"2026-01-01T00:00:00.000000Z",
		"2026-01-02T00:00:00.000000Z",
	)
	doc := NewDocument("d1", now)
	fetch := fetcherFor(nil, nil)
	require.NoError(t, doc.NewVersion(context.Background(), "v1.xml", fetch, time.Second))
	require.NoError(t, doc.NewVersion(context.Background(), "v2.xml", fetch, time.Second))

	v, err := doc.VersionAt("2026-01-01T00:00:00.000000Z")
	require.NoError(t, err)
	assert.Equal(t, "v2.xml", v.Data)
}

func TestVersionAtRejectsMalformedTimestamp(t *testing.T) {
	doc := NewDocument("d1", clockFrom("t0"))
	_, err := doc.VersionAt("not-a-timestamp")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestVersionAtPadsDateOnly(t *testing.T) {
	now := clockFrom("2026-01-01T12:00:00.000000Z")
	doc := NewDocument("d1", now)
	fetch := fetcherFor(nil, nil)
	require.NoError(t, doc.NewVersion(context.Background(), "v1.xml", fetch, time.Second))

	v, err := doc.VersionAt("2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, "v1.xml", v.Data)
}

func TestVersionAtPadsShortFractionForComparison(t *testing.T) {
	// A target with fewer than 6 fraction digits must still compare
	// correctly against the fixed 6-digit-fraction timestamps versions are
	// stored with: naive lexical comparison of "...0.4Z" against
	// "...0.400001Z" would otherwise rank "4Z" after "400001Z" (common
	// prefix, then 'Z' > '0'), even though 0.4s is chronologically earlier.
	now := clockFrom(
		"2026-01-01T00:00:00.400000Z",
		"2026-01-01T00:00:00.400001Z",
	)
	doc := NewDocument("d1", now)
	fetch := fetcherFor(nil, nil)
	require.NoError(t, doc.NewVersion(context.Background(), "v1.xml", fetch, time.Second))
	require.NoError(t, doc.NewVersion(context.Background(), "v2.xml", fetch, time.Second))

	v, err := doc.VersionAt("2026-01-01T00:00:00.4Z")
	require.NoError(t, err)
	assert.Equal(t, "v1.xml", v.Data)
}

func TestVersionAtSelectsAssetHistoryIndependentlyWithinSingleVersion(t *testing.T) {
	// Both asset registrations land on the same Document version (new_asset_version
	// appends to the current latest version in place), so version_at must pick
	// between a1.gif/a2.gif by each history entry's own timestamp, not the
	// version's.
	now := clockFrom(
		"2026-01-01T00:00:00.000000Z",
		"2026-01-02T00:00:00.000000Z",
		"2026-01-03T00:00:00.000000Z",
	)
	doc := NewDocument("d1", now)
	fetch := fetcherFor(nil, []objectstore.AssetRef{{Href: "gf01.gif"}})
	require.NoError(t, doc.NewVersion(context.Background(), "v1.xml", fetch, time.Second))
	require.NoError(t, doc.NewAssetVersion("gf01.gif", "a1.gif"))
	require.NoError(t, doc.NewAssetVersion("gf01.gif", "a2.gif"))

	beforeRollover, err := doc.VersionAt("2026-01-02T12:00:00.000000Z")
	require.NoError(t, err)
	assert.Equal(t, "a1.gif", beforeRollover.Assets["gf01.gif"])

	afterRollover, err := doc.VersionAt("2026-01-04T00:00:00.000000Z")
	require.NoError(t, err)
	assert.Equal(t, "a2.gif", afterRollover.Assets["gf01.gif"])

	current, err := doc.Version(-1)
	require.NoError(t, err)
	assert.Equal(t, "a2.gif", current.Assets["gf01.gif"])
}

func TestNewAssetVersionUnknownAssetRejected(t *testing.T) {
	now := clockFrom("2026-01-01T00:00:00.000000Z")
	doc := NewDocument("d1", now)
	require.NoError(t, doc.NewVersion(context.Background(), "v1.xml", fetcherFor(nil, nil), time.Second))

	err := doc.NewAssetVersion("unknown.gif", "a1.gif")
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestNewDeletedVersionThenNewVersionReopens(t *testing.T) {
	now := clockFrom(
		"2026-01-01T00:00:00.000000Z",
		"2026-01-02T00:00:00.000000Z",
		"2026-01-03T00:00:00.000000Z",
	)
	doc := NewDocument("d1", now)
	fetch := fetcherFor(nil, nil)
	require.NoError(t, doc.NewVersion(context.Background(), "v1.xml", fetch, time.Second))
	require.NoError(t, doc.NewDeletedVersion())

	v, err := doc.Version(-1)
	require.NoError(t, err)
	assert.True(t, v.Deleted)

	require.NoError(t, doc.NewVersion(context.Background(), "v2.xml", fetch, time.Second))
	v, err = doc.Version(-1)
	require.NoError(t, err)
	assert.False(t, v.Deleted)
	assert.Equal(t, "v2.xml", v.Data)
}

func TestNewDeletedVersionIsIdempotent(t *testing.T) {
	now := clockFrom("2026-01-01T00:00:00.000000Z", "2026-01-02T00:00:00.000000Z")
	doc := NewDocument("d1", now)
	require.NoError(t, doc.NewVersion(context.Background(), "v1.xml", fetcherFor(nil, nil), time.Second))
	require.NoError(t, doc.NewDeletedVersion())

	err := doc.NewDeletedVersion()
	assert.ErrorIs(t, err, ErrVersionAlreadySet)
}

func TestDataRewritesAssetHrefs(t *testing.T) {
	now := clockFrom("2026-01-01T00:00:00.000000Z", "2026-01-02T00:00:00.000000Z")
	doc := NewDocument("d1", now)
	xml := []byte(`<article><graphic xlink:href="gf01.gif"/></article>`)
	fetch := fetcherFor(xml, []objectstore.AssetRef{{Href: "gf01.gif"}})
	require.NoError(t, doc.NewVersion(context.Background(), "v1.xml", fetch, time.Second))
	require.NoError(t, doc.NewAssetVersion("gf01.gif", "https://objectstore/gf01.gif"))

	out, err := doc.Data(context.Background(), -1, "", fetch, time.Second)
	require.NoError(t, err)
	assert.Contains(t, string(out), `xlink:href="https://objectstore/gf01.gif"`)
}

func TestDataOnDeletedVersionFails(t *testing.T) {
	now := clockFrom("2026-01-01T00:00:00.000000Z", "2026-01-02T00:00:00.000000Z")
	doc := NewDocument("d1", now)
	fetch := fetcherFor(nil, nil)
	require.NoError(t, doc.NewVersion(context.Background(), "v1.xml", fetch, time.Second))
	require.NoError(t, doc.NewDeletedVersion())

	_, err := doc.Data(context.Background(), -1, "", fetch, time.Second)
	assert.ErrorIs(t, err, ErrDeletedVersion)
}
