package config

import (
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/sirupsen/logrus"

	"brochure/server/internal/imagery"
	"brochure/server/internal/render"
)

type Config struct {
	// Server configuration
	Server struct {
		Port string `env:"PORT" envDefault:"5250"`

		// Comma separated origins allowed to call the API
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5250" envSeparator:","`

		// gin mode: debug, release or test
		GinMode string `env:"GIN_MODE" envDefault:"release"`

		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

		// Number of brochures rendered concurrently
		RenderWorkers int `env:"RENDER_WORKERS" envDefault:"4"`

		// Renders allowed to wait for a worker before requests are refused
		RenderQueueSize int `env:"RENDER_QUEUE_SIZE" envDefault:"16"`
	}

	// Brochure configuration
	Brochure struct {
		// Hero image placed below the banner
		ImageURL string `env:"BROCHURE_IMAGE_URL" envDefault:"https://via.placeholder.com/800x400.png?text=Luxury+Property+Image+Placeholder"`

		// Upper bound on the hero image download
		ImageTimeout time.Duration `env:"BROCHURE_IMAGE_TIMEOUT" envDefault:"3s"`

		Title    string `env:"BROCHURE_TITLE" envDefault:"PREMIUM REALTY COLLECTION"`
		Subtitle string `env:"BROCHURE_SUBTITLE" envDefault:"Excellence in Every Square Foot"`
		Contact  string `env:"BROCHURE_CONTACT" envDefault:"Contact Agent: +92 300 1234567 | www.youragency.com"`
		Website  string `env:"BROCHURE_WEBSITE" envDefault:"https://www.youragency.com"`
		Agency   string `env:"BROCHURE_AGENCY" envDefault:"Premium Realty Collection"`

		// Download name sent in Content-Disposition
		Filename string `env:"BROCHURE_FILENAME" envDefault:"Luxury_Brochure.pdf"`

		// inline or bullets
		FeatureStyle string `env:"BROCHURE_FEATURE_STYLE" envDefault:"inline"`

		QRCode      bool `env:"BROCHURE_QR_CODE" envDefault:"true"`
		Compression bool `env:"BROCHURE_COMPRESSION" envDefault:"true"`
	}

	// Path to a YAML option catalog; the built-in catalog is used when empty
	CatalogPath string `env:"CATALOG_PATH"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RendererOptions translates the brochure settings into renderer options
func (c *Config) RendererOptions(logger *logrus.Logger) []render.Option {
	b := c.Brochure
	return []render.Option{
		render.WithLogger(logger),
		render.WithBrand(render.Brand{
			Title:    b.Title,
			Subtitle: b.Subtitle,
			Contact:  b.Contact,
			Website:  b.Website,
			Agency:   b.Agency,
		}),
		render.WithImageSource(imagery.NewFetcher(logger, b.ImageTimeout)),
		render.WithImageURL(b.ImageURL),
		render.WithCompression(b.Compression),
		render.WithQRCode(b.QRCode),
	}
}
