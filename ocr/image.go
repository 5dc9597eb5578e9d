package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// maxPixels bounds the decoded size of a scan. Image headers are read before
// any pixel data, so a few bytes can otherwise claim gigabytes of raster.
const maxPixels = 50_000_000

// NormalizeImage checks that data is a decodable image and returns bytes the
// engines accept. PNG and JPEG pass through untouched; TIFF, BMP, GIF and WebP
// scans are re-encoded as PNG. The second return value is the final format.
// Images larger than maxPixels are rejected before decoding.
func NormalizeImage(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyImage
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, "", fmt.Errorf("%w: %s %dx%d exceeds pixel limit", ErrUnsupportedImage, format, cfg.Width, cfg.Height)
	}

	switch format {
	case "png", "jpeg":
		return data, format, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: decode %s: %v", ErrUnsupportedImage, format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), "png", nil
}
