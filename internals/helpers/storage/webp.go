package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

/* =======================================================================
   WebP options
======================================================================= */

type WebPOptions struct {
	MaxW        int     // batas lebar (resize keep-aspect)
	MaxH        int     // batas tinggi
	Quality     float32 // used when TargetKB is 0
	TargetKB    int     // 0 = encode once with Quality
	MinQ        float32
	MaxQ        float32
	ToleranceKB int
}

// DefaultDocumentWebP keeps scanned documents legible: large bounds, high quality.
var DefaultDocumentWebP = WebPOptions{
	MaxW:        2000,
	MaxH:        2000,
	Quality:     82,
	TargetKB:    600,
	MinQ:        55,
	MaxQ:        90,
	ToleranceKB: 32,
}

/* =======================================================================
   Decode (jpeg/png/webp) with MIME sniffing
======================================================================= */

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	kind := ""
	switch {
	case strings.Contains(ct, "jpeg"):
		kind = "jpeg"
	case strings.Contains(ct, "png"):
		kind = "png"
	case strings.Contains(ct, "webp"):
		kind = "webp"
	default:
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".jpg", ".jpeg":
			kind = "jpeg"
		case ".png":
			kind = "png"
		case ".webp":
			kind = "webp"
		}
	}

	switch kind {
	case "jpeg":
		return jpeg.Decode(bytes.NewReader(all))
	case "png":
		return png.Decode(bytes.NewReader(all))
	case "webp":
		return webp.Decode(bytes.NewReader(all))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
	}
}

func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	if (maxW > 0 && b.Dx() > maxW) || (maxH > 0 && b.Dy() > maxH) {
		if maxW <= 0 {
			maxW = b.Dx()
		}
		if maxH <= 0 {
			maxH = b.Dy()
		}
		return imaging.Fit(src, maxW, maxH, imaging.Lanczos)
	}
	return src
}

func encodeQ(img image.Image, q float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeToWebP binary-searches quality until the output fits TargetKB+ToleranceKB.
func encodeToWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	if opt.TargetKB <= 0 {
		q := opt.Quality
		if q <= 0 {
			q = 80
		}
		return encodeQ(img, q)
	}

	target := (opt.TargetKB + opt.ToleranceKB) * 1024
	low, high := opt.MinQ, opt.MaxQ
	if low <= 0 {
		low = 45
	}
	if high <= 0 {
		high = 85
	}
	if low > high {
		low, high = high, low
	}

	var best []byte
	for i := 0; i < 7; i++ {
		q := (low + high) / 2
		data, err := encodeQ(img, q)
		if err != nil {
			return nil, err
		}
		if len(data) <= target {
			best = data
			low = q // fits; try better quality
		} else {
			high = q
		}
	}
	if best == nil {
		return encodeQ(img, opt.MinQ)
	}
	return best, nil
}

// ConvertToWebP: decode, resize if needed, encode webp.
func ConvertToWebP(data []byte, filename string, opts WebPOptions) ([]byte, error) {
	img, err := decodeImage(data, filename)
	if err != nil {
		return nil, err
	}
	img = downscaleIfNeeded(img, opts.MaxW, opts.MaxH)
	return encodeToWebP(img, opts)
}
