package render

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"

	"brochure/server/internal/imagery"
	"brochure/server/internal/models"
)

const (
	ContentType     = "application/pdf"
	DefaultFilename = "Luxury_Brochure.pdf"
	DefaultImageURL = "https://via.placeholder.com/800x400.png?text=Luxury+Property+Image+Placeholder"
)

// Brand is the agency identity printed on every brochure
type Brand struct {
	Title    string
	Subtitle string
	Contact  string
	Website  string
	Agency   string
}

func DefaultBrand() Brand {
	return Brand{
		Title:    "PREMIUM REALTY COLLECTION",
		Subtitle: "Excellence in Every Square Foot",
		Contact:  "Contact Agent: +92 300 1234567 | www.youragency.com",
		Website:  "https://www.youragency.com",
		Agency:   "Premium Realty Collection",
	}
}

// Renderer draws a one-page brochure for a listing
type Renderer struct {
	logger   *logrus.Logger
	brand    Brand
	images   imagery.Source
	imageURL string
	compress bool
	qrCode   bool
}

// Option configures a Renderer
type Option func(*Renderer)

func WithLogger(logger *logrus.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

func WithBrand(brand Brand) Option {
	return func(r *Renderer) {
		r.brand = brand
	}
}

// WithImageSource replaces the remote image fetcher
func WithImageSource(source imagery.Source) Option {
	return func(r *Renderer) {
		r.images = source
	}
}

func WithImageURL(url string) Option {
	return func(r *Renderer) {
		r.imageURL = url
	}
}

// WithCompression toggles content stream compression. It is on by default.
func WithCompression(compress bool) Option {
	return func(r *Renderer) {
		r.compress = compress
	}
}

// WithQRCode toggles the website QR code in the footer
func WithQRCode(enabled bool) Option {
	return func(r *Renderer) {
		r.qrCode = enabled
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		brand:    DefaultBrand(),
		imageURL: DefaultImageURL,
		compress: true,
		qrCode:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logrus.New()
		r.logger.SetFormatter(&logrus.JSONFormatter{})
		r.logger.SetOutput(os.Stdout)
	}
	if r.images == nil {
		r.images = imagery.NewFetcher(r.logger, imagery.DefaultTimeout)
	}
	return r
}

// Render draws text and the listing attributes onto a single A4 page and
// returns the PDF bytes. The image fetch never fails the render; any other
// drawing problem is returned as a *RenderFailure and no bytes are returned
// with it.
func (r *Renderer) Render(ctx context.Context, text string, spec models.ListingSpec) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithField("panic", rec).Error("Recovered from panic while rendering brochure")
			out = nil
			err = newRenderFailure("draw", fmt.Errorf("%w: %v", ErrPanic, rec))
		}
	}()

	img := r.images.FetchOrPlaceholder(ctx, r.imageURL)
	s := newSheet(r.brand, text, spec, img)

	regions := []region{drawBanner, drawImage, drawTitleRow, drawStatStrip, drawBody, drawFooter}
	if code, ok := r.websiteCode(); ok {
		s.compactFooter = true
		regions = append(regions, drawQRCode(code))
	}

	pdf := r.newDocument(s)
	canvas := NewPageCanvas(pdf)
	for _, draw := range regions {
		draw(canvas, s)
		if pdf.Err() {
			return nil, newRenderFailure("draw", pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, newRenderFailure("output", err)
	}

	r.logger.WithFields(logrus.Fields{
		"bytes":       buf.Len(),
		"placeholder": img.Placeholder,
		"tone":        spec.Tone,
	}).Info("Rendered brochure")

	return buf.Bytes(), nil
}

func (r *Renderer) newDocument(s *sheet) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(s.title.String(), true)
	pdf.SetSubject(s.bannerTitle.String(), true)
	pdf.SetAuthor(Sanitize(r.brand.Agency).String(), true)
	pdf.SetCreator("brochure server", false)
	pdf.AddPage()
	return pdf
}

// websiteCode builds the footer QR code when enabled. A website that cannot
// be encoded only costs the QR code, never the brochure.
func (r *Renderer) websiteCode() (imagery.Image, bool) {
	if !r.qrCode || r.brand.Website == "" {
		return imagery.Image{}, false
	}
	code, err := qrImage(r.brand.Website)
	if err != nil {
		r.logger.WithError(err).WithField("website", r.brand.Website).Warn("Skipping website QR code")
		return imagery.Image{}, false
	}
	return code, true
}
