package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brochure/server/config"
	"brochure/server/internal/composer"
	"brochure/server/internal/models"
	"brochure/server/internal/queue"
	"brochure/server/internal/render"
)

type stubRenderer struct {
	err   error
	fail  bool
	calls int
	text  string
	spec  models.ListingSpec
}

func (r *stubRenderer) Render(ctx context.Context, text string, spec models.ListingSpec) ([]byte, error) {
	r.calls++
	r.text = text
	r.spec = spec
	if r.err != nil {
		return nil, r.err
	}
	if r.fail {
		return nil, &render.RenderFailure{Op: "draw", Err: errors.New("broken image")}
	}
	return []byte("%PDF-1.3 stub"), nil
}

func setupTestRouter(renderer BrochureRenderer, settings Settings) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := NewHandler(config.DefaultCatalog(), renderer, settings, logger)
	return NewRouter(handler, logger, []string{"https://app.example"})
}

func postJSON(router http.Handler, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postForm(router http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func villaListing() map[string]any {
	return map[string]any{
		"property_type": "Luxury Villa",
		"location":      "Emaar Oceanfront, Karachi",
		"price":         "8.5 Crore",
		"bedrooms":      4,
		"bathrooms":     5,
		"area_sq_ft":    4500,
		"parking":       "Multi-Car Garage",
		"furnishing":    "Designer Furnished",
		"features":      "Panoramic Sea View, Private Elevator",
		"tone":          "Elegant/Luxury",
	}
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(&stubRenderer{}, Settings{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetOptions(t *testing.T) {
	router := setupTestRouter(&stubRenderer{}, Settings{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/options", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		PropertyTypes []string        `json:"property_types"`
		Furnishing    []string        `json:"furnishing"`
		Bounds        models.Bounds   `json:"bounds"`
		Tones         []models.Tone   `json:"tones"`
		FeatureStyles []string        `json:"feature_styles"`
		Defaults      json.RawMessage `json:"defaults"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Contains(t, resp.PropertyTypes, "Penthouse Suite")
	assert.Equal(t, []string{"Shell Core", "Semi-Furnished", "Designer Furnished"}, resp.Furnishing)
	assert.Equal(t, 10, resp.Bounds.MaxRooms)
	assert.Equal(t, composer.Tones(), resp.Tones)
	assert.Equal(t, []string{"inline", "bullets"}, resp.FeatureStyles)
	assert.NotEmpty(t, resp.Defaults)
}

func TestCreateDescription(t *testing.T) {
	tests := []struct {
		name         string
		body         map[string]any
		expectedCode int
		check        func(t *testing.T, resp DescriptionResponse)
	}{
		{
			name:         "Full listing",
			body:         villaListing(),
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp DescriptionResponse) {
				spec := models.ListingSpec{
					PropertyType: "Luxury Villa",
					Location:     "Emaar Oceanfront, Karachi",
					Price:        "8.5 Crore",
					Bedrooms:     4,
					Bathrooms:    5,
					AreaSqFt:     4500,
					Parking:      "Multi-Car Garage",
					Furnishing:   "Designer Furnished",
					Features:     []string{"Panoramic Sea View", "Private Elevator"},
					Tone:         models.ToneElegant,
				}
				assert.Equal(t, composer.Compose(spec), resp.Description)
				assert.Len(t, resp.Paragraphs, 4)
				assert.Equal(t, models.ToneElegant, resp.Tone)
			},
		},
		{
			name:         "Empty body falls back to catalog defaults",
			body:         map[string]any{},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp DescriptionResponse) {
				assert.Equal(t, models.ToneProfessional, resp.Tone)
				assert.Contains(t, resp.Description, "Emaar Oceanfront, Karachi")
				assert.Len(t, resp.Listing.Features, 5)
			},
		},
		{
			name: "Unknown tone uses the professional opening",
			body: func() map[string]any {
				b := villaListing()
				b["tone"] = "Whimsical"
				return b
			}(),
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp DescriptionResponse) {
				assert.True(t, strings.HasPrefix(resp.Description, "We are privileged to present"))
			},
		},
		{
			name: "Empty features leave an empty paragraph",
			body: func() map[string]any {
				b := villaListing()
				b["features"] = ""
				return b
			}(),
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp DescriptionResponse) {
				assert.Empty(t, resp.Listing.Features)
				assert.Equal(t, "", resp.Paragraphs[2])
			},
		},
		{
			name: "Bullet style per request",
			body: func() map[string]any {
				b := villaListing()
				b["feature_style"] = "bullets"
				return b
			}(),
			expectedCode: http.StatusOK,
			check: func(t *testing.T, resp DescriptionResponse) {
				assert.Equal(t, "Exclusive highlights include:\n• Panoramic Sea View\n• Private Elevator", resp.Paragraphs[2])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(&stubRenderer{}, Settings{})
			w := postJSON(router, "/api/descriptions", tt.body)
			require.Equal(t, tt.expectedCode, w.Code, w.Body.String())

			var resp DescriptionResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			tt.check(t, resp)
		})
	}
}

func TestCreateDescription_LogsUnknownTone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := logtest.NewNullLogger()
	router := NewRouter(NewHandler(config.DefaultCatalog(), &stubRenderer{}, Settings{}, logger), logger, nil)

	body := villaListing()
	body["tone"] = "Whimsical"
	w := postJSON(router, "/api/descriptions", body)
	require.Equal(t, http.StatusOK, w.Code)

	var warned *logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warned = entry
		}
	}
	require.NotNil(t, warned)
	assert.Equal(t, "Unknown tone, using the default opening", warned.Message)
	assert.Equal(t, models.Tone("Whimsical"), warned.Data["tone"])

	hook.Reset()
	w = postJSON(router, "/api/descriptions", villaListing())
	require.Equal(t, http.StatusOK, w.Code)
	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, entry.Level)
	}
}

func TestCreateDescription_ConfiguredBulletStyle(t *testing.T) {
	router := setupTestRouter(&stubRenderer{}, Settings{FeatureStyle: models.FeatureStyleBullets})

	w := postJSON(router, "/api/descriptions", villaListing())
	require.Equal(t, http.StatusOK, w.Code)

	var resp DescriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Description, "\n• Private Elevator")
}

func TestCreateDescription_Rejected(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(b map[string]any)
		expectedField string
	}{
		{"Unknown property type", func(b map[string]any) { b["property_type"] = "Castle" }, "property_type"},
		{"Unknown parking", func(b map[string]any) { b["parking"] = "Street" }, "parking"},
		{"Unknown furnishing", func(b map[string]any) { b["furnishing"] = "Bare" }, "furnishing"},
		{"Too few bedrooms", func(b map[string]any) { b["bedrooms"] = 0 }, "bedrooms"},
		{"Too many bathrooms", func(b map[string]any) { b["bathrooms"] = 11 }, "bathrooms"},
		{"Area too small", func(b map[string]any) { b["area_sq_ft"] = 99 }, "area_sq_ft"},
		{"Area too large", func(b map[string]any) { b["area_sq_ft"] = 50001 }, "area_sq_ft"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := villaListing()
			tt.mutate(body)

			router := setupTestRouter(&stubRenderer{}, Settings{})
			w := postJSON(router, "/api/descriptions", body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Error  string              `json:"error"`
				Fields map[string][]string `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Invalid listing", resp.Error)
			assert.Contains(t, resp.Fields, tt.expectedField)
			assert.Len(t, resp.Fields, 1)
		})
	}
}

func TestCreateDescription_MalformedJSON(t *testing.T) {
	router := setupTestRouter(&stubRenderer{}, Settings{})

	req := httptest.NewRequest(http.MethodPost, "/api/descriptions", strings.NewReader(`{"bedrooms": "four"`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Invalid request"`)
}

func TestCreateBrochure(t *testing.T) {
	renderer := &stubRenderer{}
	router := setupTestRouter(renderer, Settings{})

	w := postJSON(router, "/api/brochures", villaListing())
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Luxury_Brochure.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3 stub", w.Body.String())

	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, "Emaar Oceanfront, Karachi", renderer.spec.Location)
	assert.Equal(t, composer.Compose(renderer.spec), renderer.text)
}

func TestCreateBrochure_ConfiguredFilename(t *testing.T) {
	router := setupTestRouter(&stubRenderer{}, Settings{Filename: "Villa.pdf"})

	w := postJSON(router, "/api/brochures", villaListing())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="Villa.pdf"`, w.Header().Get("Content-Disposition"))
}

func TestCreateBrochure_RenderFailure(t *testing.T) {
	renderer := &stubRenderer{fail: true}
	router := setupTestRouter(renderer, Settings{})

	w := postJSON(router, "/api/brochures", villaListing())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to generate brochure"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Content-Disposition"))

	// The next request is served normally
	renderer.fail = false
	w = postJSON(router, "/api/brochures", villaListing())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, renderer.calls)
}

func TestCreateBrochure_QueueBusy(t *testing.T) {
	for _, busy := range []error{queue.ErrQueueFull, queue.ErrQueueClosed} {
		router := setupTestRouter(&stubRenderer{err: busy}, Settings{})

		w := postJSON(router, "/api/brochures", villaListing())
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "5", w.Header().Get("Retry-After"))
	}
}

func TestCreateBrochure_ThroughRenderQueue(t *testing.T) {
	renderer := &stubRenderer{}
	q := queue.NewRenderQueue(renderer, 2, 1, nil)
	q.Start()
	defer q.Close()

	router := setupTestRouter(q, Settings{})
	w := postJSON(router, "/api/brochures", villaListing())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.3 stub", w.Body.String())
}

func TestCreateBrochure_InvalidListingSkipsRender(t *testing.T) {
	renderer := &stubRenderer{}
	router := setupTestRouter(renderer, Settings{})

	body := villaListing()
	body["bedrooms"] = 42
	w := postJSON(router, "/api/brochures", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, renderer.calls)
}

func TestCreateBrochure_FormSubmission(t *testing.T) {
	renderer := &stubRenderer{}
	router := setupTestRouter(renderer, Settings{})

	w := postForm(router, "/api/brochures", url.Values{
		"property_type": {"Penthouse Suite"},
		"location":      {"DHA Phase 8, Karachi"},
		"bedrooms":      {"3"},
		"tone":          {"Urgent/Investment"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "Penthouse Suite", renderer.spec.PropertyType)
	assert.Equal(t, 3, renderer.spec.Bedrooms)
	assert.Equal(t, 5, renderer.spec.Bathrooms)
	assert.Equal(t, models.ToneUrgent, renderer.spec.Tone)
}

func TestIndex(t *testing.T) {
	router := setupTestRouter(&stubRenderer{}, Settings{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	page := w.Body.String()
	assert.Contains(t, page, `value="Emaar Oceanfront, Karachi"`)
	assert.Contains(t, page, "<option selected>Luxury Villa</option>")
	assert.Contains(t, page, "<option>Commercial Floor</option>")
	assert.Contains(t, page, `value="4500"`)
	assert.Contains(t, page, "Designer Furnished")
}

func TestGenerate(t *testing.T) {
	router := setupTestRouter(&stubRenderer{}, Settings{})

	w := postForm(router, "/generate", url.Values{
		"property_type": {"Modern Apartment"},
		"location":      {"Clifton <Block 5>, Karachi"},
		"price":         {"3 Crore"},
		"features":      {"Rooftop Garden, Gym"},
		"feature_style": {"bullets"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	page := w.Body.String()
	assert.Contains(t, page, "Property Details")
	assert.Contains(t, page, "<li>Rooftop Garden</li>")
	assert.Contains(t, page, "Clifton &lt;Block 5&gt;, Karachi")
	assert.NotContains(t, page, "<Block 5>")
	assert.Contains(t, page, "Viewings by appointment only.")
}

func TestGenerate_InvalidShowsForm(t *testing.T) {
	router := setupTestRouter(&stubRenderer{}, Settings{})

	w := postForm(router, "/generate", url.Values{
		"parking": {"Street"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown parking option")
	assert.Contains(t, w.Body.String(), `<form method="post" action="/generate">`)
}

func TestRequestID(t *testing.T) {
	router := setupTestRouter(&stubRenderer{}, Settings{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "listing-42")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "listing-42", w.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	router := setupTestRouter(&stubRenderer{}, Settings{})

	req := httptest.NewRequest(http.MethodGet, "/api/options", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/options", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCorsConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"https://a.example", "*"}).AllowAllOrigins)

	cfg := corsConfig([]string{" https://a.example ", ""})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://a.example"}, cfg.AllowOrigins)
}
