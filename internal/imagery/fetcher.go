package imagery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultTimeout  = 3 * time.Second
	DefaultMaxBytes = 10 << 20
	maxWidth        = 1600
	maxPixels       = 40_000_000
	userAgent       = "Luxury Brochure Generator/1.0"
)

var (
	ErrNoURL    = errors.New("no image url configured")
	ErrStatus   = errors.New("unexpected image response status")
	ErrTooLarge = errors.New("image dimensions too large")
)

// Image is an encoded picture ready to be embedded in a document
type Image struct {
	Data        []byte
	Type        string
	Width       int
	Height      int
	Placeholder bool
}

// Source yields an image for a URL and never fails
type Source interface {
	FetchOrPlaceholder(ctx context.Context, url string) Image
}

// Fetcher downloads remote images with a bounded timeout
type Fetcher struct {
	logger   *logrus.Logger
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

func NewFetcher(logger *logrus.Logger, timeout time.Duration) *Fetcher {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Fetcher{
		logger:   logger,
		client:   &http.Client{Timeout: timeout},
		timeout:  timeout,
		maxBytes: DefaultMaxBytes,
	}
}

// FetchOrPlaceholder returns the remote image, or the generated placeholder
// when the fetch fails for any reason.
func (f *Fetcher) FetchOrPlaceholder(ctx context.Context, url string) Image {
	img, err := f.Fetch(ctx, url)
	if err != nil {
		f.logger.WithError(err).WithField("url", url).Warn("Image fetch failed, using placeholder")
		return Placeholder()
	}
	return img
}

// Fetch downloads and decodes the image at url and re-encodes it as PNG.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Image, error) {
	if url == "" {
		return Image{}, ErrNoURL
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Image{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Image{}, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}

	// A small payload can declare a huge canvas, so the header is checked
	// before any pixels are allocated.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxPixels/cfg.Height {
		return Image{}, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode image: %w", err)
	}

	img, err := FromImage(src)
	if err != nil {
		return Image{}, err
	}

	f.logger.WithFields(logrus.Fields{
		"url":      url,
		"format":   format,
		"width":    img.Width,
		"height":   img.Height,
		"duration": time.Since(start).String(),
	}).Debug("Fetched brochure image")

	return img, nil
}

// FromImage flattens src onto white, caps its width and encodes it as an
// opaque 8-bit PNG, the only PNG flavour every PDF writer can embed.
func FromImage(src image.Image) (Image, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return Image{}, errors.New("image has no pixels")
	}
	if w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
		if h == 0 {
			h = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == b.Dx() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return Image{}, fmt.Errorf("failed to encode image: %w", err)
	}

	return Image{
		Data:   buf.Bytes(),
		Type:   "PNG",
		Width:  w,
		Height: h,
	}, nil
}
