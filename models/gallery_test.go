package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryLifecycle(t *testing.T) {
	var g []GalleryImage
	g = GalleryAdd(g, Image{URL: "a", PublicID: "pa"})
	g = GalleryAdd(g, Image{URL: "b", PublicID: "pb"})

	disabled, err := GalleryToggle(g, 0)
	require.NoError(t, err)
	assert.True(t, disabled)
	assert.Len(t, ActiveImages(g), 1)

	old, err := GalleryReplace(g, 0, Image{URL: "c", PublicID: "pc"})
	require.NoError(t, err)
	assert.Equal(t, "pa", old.PublicID)
	assert.True(t, g[0].Disabled, "replacing keeps the disabled flag")

	g, removed, err := GalleryRemove(g, 1)
	require.NoError(t, err)
	assert.Equal(t, "pb", removed.PublicID)
	assert.Len(t, g, 1)

	_, _, err = GalleryRemove(g, 4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = GalleryToggle(g, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMergeItemsLastQuantityWins(t *testing.T) {
	items := []ItemRequest{
		{LineKey: LineKey{ProductID: 1, Size: "M", Color: "Black"}, Quantity: 1},
		{LineKey: LineKey{ProductID: 2}, Quantity: 2},
		{LineKey: LineKey{ProductID: 1, Size: "M", Color: "Black"}, Quantity: 4},
	}
	merged := MergeItems(items)
	require.Len(t, merged, 2)
	assert.Equal(t, 4, merged[0].Quantity)
	assert.Equal(t, uint(2), merged[1].ProductID)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "men-s-ethnic-wear", Slugify("Men's Ethnic  Wear"))
}
