package models

// GalleryImage is an image in an admin-managed gallery (ads, combo offers).
type GalleryImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Disabled bool   `json:"disabled"`
}

// Gallery operations work by index and return the image that left the gallery, so the
// caller can delete it from media storage.

func GalleryAdd(g []GalleryImage, img Image) []GalleryImage {
	return append(g, GalleryImage{URL: img.URL, PublicID: img.PublicID})
}

func GalleryReplace(g []GalleryImage, index int, img Image) (GalleryImage, error) {
	if index < 0 || index >= len(g) {
		return GalleryImage{}, ErrIndexOutOfRange
	}
	old := g[index]
	g[index] = GalleryImage{URL: img.URL, PublicID: img.PublicID, Disabled: old.Disabled}
	return old, nil
}

func GalleryToggle(g []GalleryImage, index int) (bool, error) {
	if index < 0 || index >= len(g) {
		return false, ErrIndexOutOfRange
	}
	g[index].Disabled = !g[index].Disabled
	return g[index].Disabled, nil
}

func GalleryRemove(g []GalleryImage, index int) ([]GalleryImage, GalleryImage, error) {
	if index < 0 || index >= len(g) {
		return g, GalleryImage{}, ErrIndexOutOfRange
	}
	removed := g[index]
	out := make([]GalleryImage, 0, len(g)-1)
	out = append(out, g[:index]...)
	out = append(out, g[index+1:]...)
	return out, removed, nil
}

// ActiveImages filters out disabled images for storefront rendering.
func ActiveImages(g []GalleryImage) []GalleryImage {
	out := make([]GalleryImage, 0, len(g))
	for _, img := range g {
		if !img.Disabled {
			out = append(out, img)
		}
	}
	return out
}
