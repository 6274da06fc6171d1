package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 120, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvertToWebPDownscales(t *testing.T) {
	data := samplePNG(t, 400, 200)
	out, err := ConvertToWebP(data, "marksheet.png", WebPOptions{MaxW: 100, MaxH: 100, Quality: 70})
	require.NoError(t, err)
	require.NotEmpty(t, out)

	img, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err == nil {
		assert.Equal(t, 100, img.Width)
		assert.Equal(t, 50, img.Height)
	}
	assert.Equal(t, "RIFF", string(out[:4]))
	assert.Equal(t, "WEBP", string(out[8:12]))
}

func TestConvertToWebPRejectsUnknown(t *testing.T) {
	_, err := ConvertToWebP([]byte("%PDF-1.4 not an image"), "doc.pdf", DefaultDocumentWebP)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestBuildObjectKey(t *testing.T) {
	key := BuildObjectKey("/applications/abc/", "Income Certificate.PDF")
	assert.True(t, strings.HasPrefix(key, "applications/abc/income-certificate_"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:3000/uploads/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "applications/x/../doc.webp", "image/webp", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/uploads/applications/doc.webp", url)

	b, err := os.ReadFile(filepath.Join(dir, "applications", "doc.webp"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))

	_, err = store.Put(context.Background(), "../../etc/passwd", "text/plain", []byte("x"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "etc", "passwd"))
	assert.NoError(t, err, "keys cannot escape the upload dir")

	require.NoError(t, store.Delete(context.Background(), "applications/doc.webp"))
	require.NoError(t, store.Delete(context.Background(), "applications/doc.webp"))
}
