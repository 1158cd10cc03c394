package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"brochure/server/internal/composer"
	"brochure/server/internal/models"
)

var errAborted = errors.New("aborted by user")

// prompter asks one question at a time
type prompter interface {
	Select(message string, options []string, def string) (string, error)
	Input(message, def string, validate func(string) error) (string, error)
	Multiline(message, def string) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Select(message string, options []string, def string) (string, error) {
	var out string
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: def,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Input(message, def string, validate func(string) error) (string, error) {
	var out string
	prompt := &survey.Input{
		Message: message,
		Default: def,
	}
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Multiline(message, def string) (string, error) {
	var out string
	prompt := &survey.Multiline{
		Message: message,
		Default: def,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}

// askListing walks through every listing field, offering the catalog
// defaults, and returns the answers as a request.
func askListing(p prompter, c *models.Catalog) (models.ListingRequest, error) {
	d := c.Defaults
	var req models.ListingRequest
	var err error

	if req.PropertyType, err = p.Select("Property Type:", c.PropertyTypes, d.PropertyType); err != nil {
		return req, err
	}
	if req.Location, err = p.Input("Location:", d.Location, required("location")); err != nil {
		return req, err
	}
	if req.Price, err = p.Input("Price (e.g. 8.5 Crore):", d.Price, required("price")); err != nil {
		return req, err
	}

	bounds := c.Bounds
	if req.Bedrooms, err = askInt(p, "Bedrooms:", d.Bedrooms, bounds.MinRooms, bounds.MaxRooms); err != nil {
		return req, err
	}
	if req.Bathrooms, err = askInt(p, "Bathrooms:", d.Bathrooms, bounds.MinRooms, bounds.MaxRooms); err != nil {
		return req, err
	}
	if req.AreaSqFt, err = askInt(p, "Area (Sq Ft):", d.AreaSqFt, bounds.MinAreaSqFt, bounds.MaxAreaSqFt); err != nil {
		return req, err
	}

	if req.Parking, err = p.Select("Parking:", c.ParkingOptions, d.Parking); err != nil {
		return req, err
	}
	if req.Furnishing, err = p.Select("Furnishing:", c.FurnishingLevels, d.Furnishing); err != nil {
		return req, err
	}

	features, err := p.Multiline("Key Features (comma separated):", d.Features)
	if err != nil {
		return req, err
	}
	// Line breaks separate features just like commas
	features = strings.ReplaceAll(features, "\n", ",")
	req.Features = &features

	tones := make([]string, 0, len(composer.Tones()))
	for _, tone := range composer.Tones() {
		tones = append(tones, string(tone))
	}
	defTone := string(d.Tone)
	if defTone == "" {
		defTone = string(models.DefaultTone)
	}
	if req.Tone, err = p.Select("Tone:", tones, defTone); err != nil {
		return req, err
	}

	return req, nil
}

func askInt(p prompter, message string, def, min, max int) (*int, error) {
	answer, err := p.Input(message, strconv.Itoa(def), intBetween(min, max))
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", answer, err)
	}
	return &n, nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func intBetween(min, max int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.New("please enter a whole number")
		}
		if n < min || n > max {
			return fmt.Errorf("please enter a number between %d and %d", min, max)
		}
		return nil
	}
}
