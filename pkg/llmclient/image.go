package llmclient

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/webp"
	xdraw "golang.org/x/image/draw"
)

// MaxImageDimension bounds both width and height after normalization — the
// multimodal API has its own server-side limit, but sending an oversized
// mockup screenshot wastes tokens and latency for no quality benefit.
const MaxImageDimension = 2048

// NormalizeImage decodes a mockup image of any supported format (PNG, JPEG,
// GIF, WebP), downscales it if it exceeds MaxImageDimension on either axis,
// and always re-encodes to PNG so the LLM call always sends one consistent
// wire format regardless of what the client uploaded.
func NormalizeImage(data []byte, mimeType string) ([]byte, error) {
	img, err := decode(data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("llmclient: decoding image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > MaxImageDimension || h > MaxImageDimension {
		nw, nh := clampDimensions(w, h)
		img = resize(img, nw, nh)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("llmclient: re-encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte, mimeType string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch mimeType {
	case "image/png":
		return png.Decode(r)
	case "image/jpeg":
		return jpeg.Decode(r)
	case "image/gif":
		return gif.Decode(r)
	case "image/webp":
		return webp.Decode(r)
	default:
		img, _, err := image.Decode(r)
		return img, err
	}
}

func clampDimensions(w, h int) (int, int) {
	if w >= h {
		scaled := h * MaxImageDimension / w
		return MaxImageDimension, scaled
	}
	scaled := w * MaxImageDimension / h
	return scaled, MaxImageDimension
}

func resize(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
