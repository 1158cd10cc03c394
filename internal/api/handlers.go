package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brochure/server/internal/composer"
	"brochure/server/internal/models"
	"brochure/server/internal/queue"
	"brochure/server/internal/render"
)

// BrochureRenderer draws a listing brochure as PDF bytes
type BrochureRenderer interface {
	Render(ctx context.Context, text string, spec models.ListingSpec) ([]byte, error)
}

// Settings are the per-deployment choices the handlers apply to every request
type Settings struct {
	FeatureStyle models.FeatureStyle
	Filename     string
}

type Handler struct {
	logger   *logrus.Logger
	catalog  *models.Catalog
	renderer BrochureRenderer
	settings Settings
}

// DescriptionResponse is returned by the descriptions endpoint
type DescriptionResponse struct {
	Description string             `json:"description"`
	Paragraphs  []string           `json:"paragraphs"`
	Tone        models.Tone        `json:"tone"`
	Listing     models.ListingSpec `json:"listing"`
}

// OptionsResponse lists every choice the form offers
type OptionsResponse struct {
	*models.Catalog
	Tones         []models.Tone         `json:"tones"`
	FeatureStyles []models.FeatureStyle `json:"feature_styles"`
}

var errUnreadable = errors.New("request body could not be read")

func NewHandler(catalog *models.Catalog, renderer BrochureRenderer, settings Settings, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if settings.Filename == "" {
		settings.Filename = render.DefaultFilename
	}
	if settings.FeatureStyle == "" {
		settings.FeatureStyle = models.FeatureStyleInline
	}

	return &Handler{
		logger:   logger,
		catalog:  catalog,
		renderer: renderer,
		settings: settings,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, OptionsResponse{
		Catalog:       h.catalog,
		Tones:         composer.Tones(),
		FeatureStyles: []models.FeatureStyle{models.FeatureStyleInline, models.FeatureStyleBullets},
	})
}

// Index serves the listing form prefilled with the catalog defaults
func (h *Handler) Index(c *gin.Context) {
	req := models.ListingRequest{}
	req.ApplyDefaults(h.catalog)
	c.HTML(http.StatusOK, "form.html", h.formData(req, nil))
}

// Generate handles the form submission and shows the description preview
func (h *Handler) Generate(c *gin.Context) {
	req, err := h.bindListing(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "form.html", h.formData(req, models.ValidationErrors{"form": {err.Error()}}))
		return
	}
	if errs := req.Validate(h.catalog); !errs.Empty() {
		c.HTML(http.StatusBadRequest, "form.html", h.formData(req, errs))
		return
	}

	spec, text := h.compose(c, req)
	requestLog(c, h.logger).WithField("tone", spec.Tone).Info("Generated listing description")

	c.HTML(http.StatusOK, "preview.html", gin.H{
		"Listing":     spec,
		"Request":     req,
		"Description": previewHTML(text),
	})
}

// CreateDescription composes a description from a JSON or form listing
func (h *Handler) CreateDescription(c *gin.Context) {
	req, ok := h.bindOrReject(c)
	if !ok {
		return
	}

	spec, text := h.compose(c, req)

	c.JSON(http.StatusOK, DescriptionResponse{
		Description: text,
		Paragraphs:  composer.Paragraphs(text),
		Tone:        spec.Tone,
		Listing:     spec,
	})
}

// CreateBrochure composes the description and returns the rendered PDF
func (h *Handler) CreateBrochure(c *gin.Context) {
	req, ok := h.bindOrReject(c)
	if !ok {
		return
	}

	spec, text := h.compose(c, req)
	pdf, err := h.renderer.Render(c.Request.Context(), text, spec)
	if errors.Is(err, queue.ErrQueueFull) || errors.Is(err, queue.ErrQueueClosed) {
		requestLog(c, h.logger).WithError(err).Warn("Brochure renderer unavailable")
		c.Header("Retry-After", "5")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Brochure service is busy, try again shortly"})
		return
	}
	if err != nil {
		requestLog(c, h.logger).WithError(err).Error("Failed to generate brochure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate brochure"})
		return
	}

	requestLog(c, h.logger).WithFields(logrus.Fields{
		"tone":  spec.Tone,
		"bytes": len(pdf),
	}).Info("Generated brochure")

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.settings.Filename))
	c.Data(http.StatusOK, render.ContentType, pdf)
}

// bindListing reads a JSON or form listing and fills in the catalog defaults
func (h *Handler) bindListing(c *gin.Context) (models.ListingRequest, error) {
	var req models.ListingRequest
	if err := c.ShouldBind(&req); err != nil {
		req.ApplyDefaults(h.catalog)
		return req, fmt.Errorf("%w: %v", errUnreadable, err)
	}
	req.ApplyDefaults(h.catalog)
	return req, nil
}

// bindOrReject answers 400 for unreadable or invalid listings
func (h *Handler) bindOrReject(c *gin.Context) (models.ListingRequest, bool) {
	req, err := h.bindListing(c)
	if err != nil {
		requestLog(c, h.logger).WithError(err).Warn("Failed to bind listing")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return req, false
	}

	if errs := req.Validate(h.catalog); !errs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing", "fields": errs})
		return req, false
	}
	return req, true
}

// compose builds the listing spec and its description
func (h *Handler) compose(c *gin.Context, req models.ListingRequest) (models.ListingSpec, string) {
	spec := req.ToSpec()
	if !composer.IsKnownTone(spec.Tone) {
		requestLog(c, h.logger).WithField("tone", spec.Tone).Warn("Unknown tone, using the default opening")
	}
	return spec, h.composerFor(req).Compose(spec)
}

// composerFor honours a per-request feature style over the configured one
func (h *Handler) composerFor(req models.ListingRequest) *composer.Composer {
	if req.FeatureStyle == "" {
		return composer.New(h.settings.FeatureStyle)
	}
	return composer.New(models.ParseFeatureStyle(req.FeatureStyle))
}

func (h *Handler) formData(req models.ListingRequest, errs models.ValidationErrors) gin.H {
	features := ""
	if req.Features != nil {
		features = *req.Features
	}
	return gin.H{
		"Catalog":  h.catalog,
		"Request":  req,
		"Features": features,
		"Tones":    composer.Tones(),
		"Style":    h.settings.FeatureStyle,
		"Errors":   errs,
	}
}
