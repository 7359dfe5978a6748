// Package imaging normalizes uploaded board photos before storage.
// Photos arrive from phones and scanners at arbitrary sizes; everything
// is sniffed, bounded, downscaled and re-encoded as JPEG so the cache
// database never stores multi-megabyte originals.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height for stored board photos.
const MaxDimension = 1280

// MaxUploadBytes caps the raw upload size before decoding.
const MaxUploadBytes = 10 << 20

// JPEGQuality is the compression quality for re-encoded photos.
const JPEGQuality = 82

// Photo is a normalized board photo ready for storage.
type Photo struct {
	Data []byte
	MIME string
}

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Normalize reads an uploaded photo, validates the format by sniffing
// bytes, downscales anything larger than MaxDimension and re-encodes it
// as JPEG. Inputs over MaxUploadBytes are rejected before decoding.
func Normalize(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading photo data: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("photo exceeds %d byte upload limit", MaxUploadBytes)
	}

	// Sniff the actual MIME type, never trust client headers.
	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("unsupported photo format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}

	if w, h := fit(img.Bounds().Dx(), img.Bounds().Dy(), MaxDimension); w != img.Bounds().Dx() || h != img.Bounds().Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	return &Photo{Data: buf.Bytes(), MIME: "image/jpeg"}, nil
}

// fit returns dimensions scaled so neither side exceeds maxDim,
// preserving aspect ratio. Images already within bounds are unchanged.
func fit(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w > h {
		h = int(float64(h) * float64(maxDim) / float64(w))
		w = maxDim
	} else {
		w = int(float64(w) * float64(maxDim) / float64(h))
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
