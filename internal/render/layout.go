package render

import (
	"brochure/server/internal/imagery"
	"brochure/server/internal/models"
)

var (
	Navy      = Color{10, 25, 60}
	Gold      = Color{184, 134, 11}
	White     = Color{255, 255, 255}
	LightGray = Color{245, 245, 245}
	StatText  = Color{50, 50, 50}
	BodyText  = Color{40, 40, 40}
)

const (
	fontFamily = "Helvetica"

	bannerHeight = 35.0
	footerHeight = 30.0

	titleRowY      = 130.0
	titleRowHeight = 15.0
	titleWidth     = 130.0
	priceWidth     = 60.0

	statStripY      = 148.0
	statStripHeight = 18.0
	statCells       = 4

	bodySectionY   = 173.0
	bodyLineHeight = 7.0
	bodyFontSize   = 12.0
	bodyMinSize    = 9.0
	footerGap      = 3.0

	imageName = "listing-image"
)

// imageSlot is the fixed image region below the banner
var imageSlot = Rect{X: 10, Y: 40, W: 190, H: 85}

// sheet holds every piece of text placed on the page, already sanitized
type sheet struct {
	bannerTitle    SafeText
	bannerSubtitle SafeText
	title          SafeText
	price          SafeText
	stats          [statCells]SafeText
	heading        SafeText
	body           SafeText
	contact        SafeText
	image          imagery.Image
	compactFooter  bool
}

func newSheet(brand Brand, text string, spec models.ListingSpec, img imagery.Image) *sheet {
	return &sheet{
		bannerTitle:    Sanitize(brand.Title),
		bannerSubtitle: Sanitize(brand.Subtitle),
		title:          Safef("%s in %s", spec.PropertyType, spec.Location),
		price:          Sanitize(spec.Price),
		stats: [statCells]SafeText{
			Safef("AREA: %d Sq Ft", spec.AreaSqFt),
			Safef("BEDS: %d", spec.Bedrooms),
			Safef("BATHS: %d", spec.Bathrooms),
			Sanitize(spec.Parking),
		},
		heading: Sanitize("Property Details"),
		body:    Sanitize(text),
		contact: Sanitize(brand.Contact),
		image:   img,
	}
}

// region draws one fixed area of the page
type region func(c *PageCanvas, s *sheet)

func drawBanner(c *PageCanvas, s *sheet) {
	w, _ := c.PageSize()
	c.FillRect(Rect{X: 0, Y: 0, W: w, H: bannerHeight}, Navy)

	c.MoveToY(10)
	c.FitCell(Font{Family: fontFamily, Style: "B", Size: 20, Color: White}, Cell{H: 10, Text: s.bannerTitle, Align: "C"}, 12)
	c.Advance(10)

	c.FitCell(Font{Family: fontFamily, Style: "I", Size: 10, Color: White}, Cell{H: 5, Text: s.bannerSubtitle, Align: "C"}, 7)
}

func drawImage(c *PageCanvas, s *sheet) {
	c.Image(imageName, s.image, imageSlot)
}

func drawTitleRow(c *PageCanvas, s *sheet) {
	c.MoveToY(titleRowY)

	c.FitCell(Font{Family: fontFamily, Style: "B", Size: 22, Color: Navy}, Cell{W: titleWidth, H: titleRowHeight, Text: s.title, Align: "L"}, 12)
	c.FitCell(Font{Family: fontFamily, Style: "B", Size: 22, Color: Gold}, Cell{W: priceWidth, H: titleRowHeight, Text: s.price, Align: "R"}, 12)
}

func drawStatStrip(c *PageCanvas, s *sheet) {
	width := c.ContentWidth()
	cellWidth := width / statCells

	c.MoveToY(statStripY)
	c.FillRect(Rect{X: c.Cursor().X, Y: statStripY, W: width, H: statStripHeight}, LightGray)
	c.SetRule(White, 1)

	for i, stat := range s.stats {
		border := "R"
		if i == statCells-1 {
			border = ""
		}
		c.FitCell(Font{Family: fontFamily, Style: "B", Size: 11, Color: StatText}, Cell{W: cellWidth, H: statStripHeight, Text: stat, Align: "C", Border: border}, 7)
	}
}

func drawBody(c *PageCanvas, s *sheet) {
	_, h := c.PageSize()
	width := c.ContentWidth()

	c.MoveToY(bodySectionY)
	c.SetFont(Font{Family: fontFamily, Style: "B", Size: 16, Color: Navy})
	c.DrawCell(Cell{H: 10, Text: s.heading, Align: "L"})
	c.Advance(10)

	c.FillRect(Rect{X: c.Cursor().X, Y: c.Cursor().Y, W: 40, H: 1}, Gold)
	c.Advance(8)

	bottom := h - footerHeight - footerGap
	available := bottom - c.Cursor().Y

	// Shrink the body until it fits above the footer; clip as a last resort.
	size, lineHeight := bodyFontSize, bodyLineHeight
	for {
		c.SetFont(Font{Family: fontFamily, Size: size, Color: BodyText})
		if size <= bodyMinSize || c.ParagraphHeight(width, lineHeight, s.body) <= available {
			break
		}
		size--
		lineHeight = size * bodyLineHeight / bodyFontSize
	}
	c.Paragraph(width, lineHeight, s.body, bottom)
}

func drawFooter(c *PageCanvas, s *sheet) {
	w, h := c.PageSize()
	top := h - footerHeight
	c.FillRect(Rect{X: 0, Y: top, W: w, H: footerHeight}, Navy)

	width := c.ContentWidth()
	if s.compactFooter {
		width -= qrSize + 2*qrPadding
	}

	if s.contact.Empty() {
		return
	}
	c.MoveToY(h - 22)
	c.FitCell(Font{Family: fontFamily, Style: "B", Size: 12, Color: White}, Cell{W: width, H: 10, Text: s.contact, Align: "C"}, 7)
}
