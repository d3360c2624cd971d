package utils

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 64)...)
)

func fileHeaders(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	return form.File["images"]
}

func TestValidateImageAccepts(t *testing.T) {
	png := fileHeaders(t, map[string][]byte{"a.png": pngBytes})[0]
	mt, err := ValidateImage(png, 2*MB)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mt)

	jpg := fileHeaders(t, map[string][]byte{"b.JPG": jpegBytes})[0]
	mt, err = ValidateImage(jpg, 2*MB)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mt)
}

func TestValidateImageRejects(t *testing.T) {
	var uerr *UploadError

	gif := fileHeaders(t, map[string][]byte{"a.gif": []byte("GIF89a")})[0]
	_, err := ValidateImage(gif, 2*MB)
	require.ErrorAs(t, err, &uerr)
	assert.Contains(t, uerr.Message, "only JPEG and PNG")

	fake := fileHeaders(t, map[string][]byte{"fake.png": []byte("plain text, not an image")})[0]
	_, err = ValidateImage(fake, 2*MB)
	require.ErrorAs(t, err, &uerr)
	assert.Contains(t, uerr.Message, "not a JPEG or PNG")

	big := fileHeaders(t, map[string][]byte{"big.png": append(pngBytes, make([]byte, 2*MB)...)})[0]
	_, err = ValidateImage(big, 2*MB)
	require.ErrorAs(t, err, &uerr)
	assert.Contains(t, uerr.Message, "maximum size is 2MB")
}

func TestValidateImagesCount(t *testing.T) {
	files := fileHeaders(t, map[string][]byte{
		"1.png": pngBytes, "2.png": pngBytes, "3.png": pngBytes,
	})
	_, err := ValidateImages(files, 2, 5*MB)
	var uerr *UploadError
	require.ErrorAs(t, err, &uerr)

	types, err := ValidateImages(files, 3, 5*MB)
	require.NoError(t, err)
	assert.Len(t, types, 3)
}
