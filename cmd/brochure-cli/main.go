package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"brochure/server/config"
	"brochure/server/internal/composer"
	"brochure/server/internal/models"
	"brochure/server/internal/render"
)

type options struct {
	out         string
	useDefaults bool
	style       string
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WithError(err).Warn("Failed to load .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	var opts options
	flag.StringVar(&opts.out, "out", cfg.Brochure.Filename, "where to write the PDF brochure")
	flag.BoolVar(&opts.useDefaults, "defaults", false, "skip the prompts and use the catalog defaults")
	flag.StringVar(&opts.style, "style", cfg.Brochure.FeatureStyle, "feature style: inline or bullets")
	flag.Parse()

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load option catalog")
	}

	renderer := render.New(cfg.RendererOptions(logger)...)

	if err := run(context.Background(), os.Stdout, surveyPrompter{}, catalog, renderer, opts); err != nil {
		if errors.Is(err, errAborted) {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			os.Exit(130)
		}
		logger.WithError(err).Error("Failed to generate brochure")
		os.Exit(1)
	}
}

// brochureRenderer is the part of render.Renderer the command needs
type brochureRenderer interface {
	Render(ctx context.Context, text string, spec models.ListingSpec) ([]byte, error)
}

func run(ctx context.Context, w io.Writer, p prompter, catalog *models.Catalog, renderer brochureRenderer, opts options) error {
	var req models.ListingRequest
	if !opts.useDefaults {
		var err error
		if req, err = askListing(p, catalog); err != nil {
			return err
		}
	}

	req.ApplyDefaults(catalog)
	if errs := req.Validate(catalog); !errs.Empty() {
		return errs
	}

	spec := req.ToSpec()
	text := composer.New(models.ParseFeatureStyle(opts.style)).Compose(spec)

	fmt.Fprintf(w, "\nGenerated Listing\n\n%s\n\n", text)

	pdf, err := renderer.Render(ctx, text, spec)
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.out, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write brochure: %w", err)
	}
	fmt.Fprintf(w, "Brochure saved to %s (%d bytes)\n", opts.out, len(pdf))
	return nil
}
