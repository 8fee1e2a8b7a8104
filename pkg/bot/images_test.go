package bot

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"tarobot/pkg/tarot"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, path string, w, ht int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, ht))))
}

func TestCardFile_NoIllustration(t *testing.T) {
	h := newTestHandler(nil)

	file, notice := h.cardFile(tarot.Card{Name: "The Fool"})
	assert.Nil(t, file)
	assert.Empty(t, notice, "a card without an illustration is not a missing asset")
}

func TestCardFile_MissingFileFallsBackToText(t *testing.T) {
	h := newTestHandler(nil)
	h.images.Dir = t.TempDir()

	file, notice := h.cardFile(tarot.Card{Name: "Ace of Cups", Image: "ace-of-cups-1.jpg"})
	assert.Nil(t, file)
	assert.Contains(t, notice, "Ace of Cups", "the fallback notice names the card")
}

func TestCardFile_LoadsExistingImage(t *testing.T) {
	h := newTestHandler(nil)
	h.images.Dir = t.TempDir()
	h.images.ThresholdBytes = 1 << 20

	writeTestPNG(t, filepath.Join(h.images.Dir, "ace-of-cups-1.jpg"), 10, 10)

	file, notice := h.cardFile(tarot.Card{Name: "Ace of Cups", Image: "ace-of-cups-1.jpg"})
	require.NotNil(t, file)
	assert.Empty(t, notice)
	assert.Equal(t, "ace-of-cups-1.jpg", file.Name)
}

func TestCardFile_DownscalesLargeImage(t *testing.T) {
	h := newTestHandler(nil)
	h.images.Dir = t.TempDir()
	h.images.ThresholdBytes = 64 // force the downscale path
	h.images.MaxWidth = 16
	h.images.MaxHeight = 16

	writeTestPNG(t, filepath.Join(h.images.Dir, "two-of-wands-1.jpg"), 200, 300)

	file, notice := h.cardFile(tarot.Card{Name: "Two of Wands", Image: "two-of-wands-1.jpg"})
	require.NotNil(t, file)
	assert.Empty(t, notice)
	assert.Equal(t, "two-of-wands-1.jpg.jpg", file.Name, "re-encoded upload gets a jpeg name")

	img, err := imaging.Decode(file.Reader)
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), 16)
	assert.LessOrEqual(t, img.Bounds().Dy(), 16)
}

func TestDownscale_RejectsGarbage(t *testing.T) {
	_, err := downscale([]byte("not an image"), 16, 16)
	assert.Error(t, err)
}
