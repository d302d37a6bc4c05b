package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleOrderingClampSemantics(t *testing.T) {
	now := clockFrom("t0", "t1", "t2", "t3")
	b := NewBundle("b1", now)

	b, err := InsertItem(b, -10, "doc/1", now)
	require.NoError(t, err)
	b, err = InsertItem(b, 10, "doc/3", now)
	require.NoError(t, err)
	b, err = AddItem(b, "doc/2", now)
	require.NoError(t, err)

	assert.Equal(t, []string{"doc/1", "doc/3", "doc/2"}, b.Items)
}

func TestAddItemDuplicateRejected(t *testing.T) {
	now := clockFrom("t0", "t1")
	b := NewBundle("b1", now)
	b, err := AddItem(b, "doc/1", now)
	require.NoError(t, err)

	_, err = AddItem(b, "doc/1", now)
	assert.ErrorIs(t, err, ErrItemAlreadyExists)
}

func TestRemoveItemAbsentRejected(t *testing.T) {
	now := clockFrom("t0")
	b := NewBundle("b1", now)
	_, err := RemoveItem(b, "doc/1", now)
	assert.ErrorIs(t, err, ErrItemDoesNotExist)
}

func TestMetadataGetReturnsLatest(t *testing.T) {
	now := clockFrom("t0", "t1", "t2")
	b := NewBundle("b1", now)
	b = SetMetadata(b, "volume", "1", now)
	b = SetMetadata(b, "volume", "2", now)

	assert.Equal(t, "2", GetMetadata(b, "volume"))
	assert.Len(t, GetMetadataAll(b, "volume"), 2)
}

func TestComponentRoundTrip(t *testing.T) {
	now := clockFrom("t0", "t1", "t2")
	b := NewBundle("j1", now)
	b = SetComponent(b, "aop", "bundle-1", now)
	assert.Equal(t, "bundle-1", GetComponent(b, "aop", ""))

	b, err := RemoveComponent(b, "aop", now)
	require.NoError(t, err)
	assert.Equal(t, "", GetComponent(b, "aop", ""))

	_, err = RemoveComponent(b, "aop", now)
	assert.ErrorIs(t, err, ErrItemDoesNotExist)
}
