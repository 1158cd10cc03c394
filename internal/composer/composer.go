package composer

import (
	"fmt"
	"strings"

	"brochure/server/internal/models"
)

// BulletPrefix starts every feature line in the bullets style
const BulletPrefix = "• "

const (
	paragraphSeparator = "\n\n"
	callToAction       = "Viewings by appointment only."
)

type openingFunc func(models.ListingSpec) string

// openings holds one opening sentence template per tone. Adding a tone is a
// new entry here plus its position in toneOrder.
var openings = map[models.Tone]openingFunc{
	models.ToneProfessional: func(s models.ListingSpec) string {
		return fmt.Sprintf("We are privileged to present this premium %d sq ft %s situated in %s.",
			s.AreaSqFt, s.PropertyType, s.Location)
	},
	models.ToneElegant: func(s models.ListingSpec) string {
		return fmt.Sprintf("Experience unparalleled luxury in this exquisite %s %s located in the prestigious %s.",
			s.Furnishing, s.PropertyType, s.Location)
	},
	models.ToneUrgent: func(s models.ListingSpec) string {
		return fmt.Sprintf("Prime Investment Opportunity! A rare %s in %s priced at %s for immediate sale.",
			s.PropertyType, s.Location, s.Price)
	},
}

var toneOrder = []models.Tone{
	models.ToneProfessional,
	models.ToneElegant,
	models.ToneUrgent,
}

// Composer turns a ListingSpec into marketing prose
type Composer struct {
	Style models.FeatureStyle
}

// New returns a Composer using the given feature style
func New(style models.FeatureStyle) *Composer {
	return &Composer{Style: style}
}

// Compose renders spec with the inline feature style
func Compose(spec models.ListingSpec) string {
	return New(models.FeatureStyleInline).Compose(spec)
}

// Compose builds the opening, body, features and closing paragraphs and joins
// them with blank lines. It never fails and never alters field contents.
func (c *Composer) Compose(spec models.ListingSpec) string {
	paragraphs := []string{
		Opening(spec),
		body(spec),
		c.features(spec.Features),
		closing(spec),
	}
	return strings.Join(paragraphs, paragraphSeparator)
}

// Opening returns the tone-specific first sentence, falling back to the
// default tone for anything not in the table.
func Opening(spec models.ListingSpec) string {
	open, ok := openings[spec.Tone]
	if !ok {
		open = openings[models.DefaultTone]
	}
	return open(spec)
}

// Tones lists the tones with a dedicated opening, in display order
func Tones() []models.Tone {
	tones := make([]models.Tone, len(toneOrder))
	copy(tones, toneOrder)
	return tones
}

// IsKnownTone reports whether tone has its own opening
func IsKnownTone(tone models.Tone) bool {
	_, ok := openings[tone]
	return ok
}

// Paragraphs splits composed text back into its paragraphs
func Paragraphs(text string) []string {
	return strings.Split(text, paragraphSeparator)
}

func body(s models.ListingSpec) string {
	return fmt.Sprintf("Spanning an impressive %d sq ft, this residence features %d master suites and %d designer bathrooms. "+
		"It comes with %s and is offered %s.",
		s.AreaSqFt, s.Bedrooms, s.Bathrooms, s.Parking, s.Furnishing)
}

func (c *Composer) features(features []string) string {
	if len(features) == 0 {
		return ""
	}

	if c.Style == models.FeatureStyleBullets {
		var b strings.Builder
		b.WriteString("Exclusive highlights include:")
		for _, f := range features {
			b.WriteString("\n")
			b.WriteString(BulletPrefix)
			b.WriteString(f)
		}
		return b.String()
	}

	return fmt.Sprintf("Exclusive highlights include: %s.", strings.Join(features, ", "))
}

func closing(s models.ListingSpec) string {
	return fmt.Sprintf("Listing Price: %s. %s", s.Price, callToAction)
}
