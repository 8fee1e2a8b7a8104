package bot

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"tarobot/pkg/tarot"

	"github.com/bwmarrin/discordgo"
	"github.com/disintegration/imaging"
)

// cardFile loads the card's illustration from the images directory.
// It returns a nil file when the card has no illustration, and a
// user-visible notice when the referenced file is missing or broken.
// Oversized images are downscaled before upload.
func (h *Handler) cardFile(card tarot.Card) (*discordgo.File, string) {
	if card.Image == "" {
		return nil, ""
	}

	path := filepath.Join(h.images.Dir, card.Image)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Missing illustration for card %q: %v", card.Name, err)
		return nil, fmt.Sprintf("(The illustration for %s is missing today, so words will have to do.)", card.Name)
	}

	name := card.Image
	if h.images.ThresholdBytes > 0 && int64(len(data)) > h.images.ThresholdBytes {
		resized, err := downscale(data, h.images.MaxWidth, h.images.MaxHeight)
		if err != nil {
			log.Printf("Error downscaling illustration for card %q: %v", card.Name, err)
			// Upload the original rather than dropping the image.
		} else {
			data = resized
			name = card.Image + ".jpg"
		}
	}

	return &discordgo.File{
		Name:   name,
		Reader: bytes.NewReader(data),
	}, ""
}

// downscale re-encodes an image to fit within maxWidth x maxHeight.
func downscale(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if maxWidth <= 0 {
		maxWidth = 1024
	}
	if maxHeight <= 0 {
		maxHeight = 1536
	}

	img = imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
