package render

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"brochure/server/internal/imagery"
)

// Color is an RGB triple in the 0-255 range
type Color struct {
	R, G, B int
}

// Rect is an axis-aligned box in millimetres
type Rect struct {
	X, Y, W, H float64
}

// Font is a core font selection together with its text color
type Font struct {
	Family string
	Style  string
	Size   float64
	Color  Color
}

// Cursor is the position the next cell is drawn at
type Cursor struct {
	X, Y float64
}

// Cell is a single line of text drawn at the cursor. A zero width extends
// the cell to the right margin.
type Cell struct {
	W      float64
	H      float64
	Text   SafeText
	Align  string
	Border string
}

// PageCanvas draws on a single page and owns the drawing cursor. Every
// drawing call starts from the canvas cursor rather than from whatever
// position the PDF writer was last left at.
type PageCanvas struct {
	pdf    *gofpdf.Fpdf
	cursor Cursor
	left   float64
	right  float64
	width  float64
	height float64
}

func NewPageCanvas(pdf *gofpdf.Fpdf) *PageCanvas {
	w, h := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	return &PageCanvas{
		pdf:    pdf,
		cursor: Cursor{X: left},
		left:   left,
		right:  right,
		width:  w,
		height: h,
	}
}

func (c *PageCanvas) Cursor() Cursor {
	return c.cursor
}

// MoveTo places the cursor at an absolute position
func (c *PageCanvas) MoveTo(x, y float64) {
	c.cursor = Cursor{X: x, Y: y}
}

// MoveToY places the cursor at the left margin of row y
func (c *PageCanvas) MoveToY(y float64) {
	c.MoveTo(c.left, y)
}

// Advance starts a new line dy below the current one
func (c *PageCanvas) Advance(dy float64) {
	c.cursor = Cursor{X: c.left, Y: c.cursor.Y + dy}
}

// ContentWidth is the page width between the margins
func (c *PageCanvas) ContentWidth() float64 {
	return c.width - c.left - c.right
}

func (c *PageCanvas) PageSize() (float64, float64) {
	return c.width, c.height
}

func (c *PageCanvas) FillRect(r Rect, fill Color) {
	c.pdf.SetFillColor(fill.R, fill.G, fill.B)
	c.pdf.Rect(r.X, r.Y, r.W, r.H, "F")
}

// SetRule configures the color and width of cell borders
func (c *PageCanvas) SetRule(col Color, width float64) {
	c.pdf.SetDrawColor(col.R, col.G, col.B)
	c.pdf.SetLineWidth(width)
}

func (c *PageCanvas) SetFont(f Font) {
	c.pdf.SetFont(f.Family, f.Style, f.Size)
	c.pdf.SetTextColor(f.Color.R, f.Color.G, f.Color.B)
}

// FitFont sets f, shrinking its size one point at a time until text fits in
// width or minSize is reached.
func (c *PageCanvas) FitFont(f Font, text SafeText, width, minSize float64) {
	c.SetFont(f)
	for f.Size > minSize && c.textWidth(text) > width {
		f.Size--
		c.SetFont(f)
	}
}

// FitCell draws cell with f shrunk to fit its width. Text still too wide at
// minSize is cut short and ends with "...".
func (c *PageCanvas) FitCell(f Font, cell Cell, minSize float64) {
	width := cell.W
	if width == 0 {
		width = c.width - c.right - c.cursor.X
	}
	cell.Text = c.fitText(f, cell.Text, width, minSize)
	c.DrawCell(cell)
}

// fitText sets the font for text in a cell of the given width and returns
// the text as it will fit there.
func (c *PageCanvas) fitText(f Font, text SafeText, width, minSize float64) SafeText {
	avail := width - 2*c.pdf.GetCellMargin()
	c.FitFont(f, text, avail, minSize)
	if c.textWidth(text) <= avail {
		return text
	}
	return SafeText{encoded: c.ellipsize(text.raw(), width)}
}

// DrawCell draws cell at the cursor and moves the cursor to its right edge
func (c *PageCanvas) DrawCell(cell Cell) {
	w := cell.W
	if w == 0 {
		w = c.width - c.right - c.cursor.X
	}
	c.pdf.SetXY(c.cursor.X, c.cursor.Y)
	c.pdf.CellFormat(w, cell.H, cell.Text.raw(), cell.Border, 0, cell.Align, false, 0, "")
	c.cursor.X += w
}

// Paragraph word-wraps text into lines of the given width starting at the
// cursor. Blank source lines add half a line of spacing. Lines that would
// cross bottom are not drawn and the last drawn line then ends with an
// ellipsis. It reports whether anything was clipped.
func (c *PageCanvas) Paragraph(width, lineHeight float64, text SafeText, bottom float64) bool {
	lines := c.wrap(text, width)

	visible, y := 0, c.cursor.Y
	for _, line := range lines {
		step := lineStep(line, lineHeight)
		if y+step > bottom {
			break
		}
		y += step
		visible++
	}

	clipped := visible < len(lines)
	if clipped {
		lines = lines[:visible]
		for len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		if n := len(lines); n > 0 {
			lines[n-1] = c.ellipsize(lines[n-1], width)
		}
	}

	for _, line := range lines {
		if line != "" {
			c.pdf.SetXY(c.left, c.cursor.Y)
			c.pdf.CellFormat(width, lineHeight, line, "", 0, "L", false, 0, "")
		}
		c.Advance(lineStep(line, lineHeight))
	}
	return clipped
}

// ParagraphHeight is the height Paragraph would use for text at the current font
func (c *PageCanvas) ParagraphHeight(width, lineHeight float64, text SafeText) float64 {
	total := 0.0
	for _, line := range c.wrap(text, width) {
		total += lineStep(line, lineHeight)
	}
	return total
}

// Image embeds img and draws it into r
func (c *PageCanvas) Image(name string, img imagery.Image, r Rect) {
	opts := gofpdf.ImageOptions{ImageType: img.Type}
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	c.pdf.ImageOptions(name, r.X, r.Y, r.W, r.H, false, opts, 0, "")
}

func (c *PageCanvas) textWidth(text SafeText) float64 {
	return c.pdf.GetStringWidth(text.raw())
}

// wrap splits text on newlines and greedily fills each line with words.
// A word wider than a whole line is broken across lines. Lines are returned
// in the writer's single-byte encoding.
func (c *PageCanvas) wrap(text SafeText, width float64) []string {
	avail := width - 2*c.pdf.GetCellMargin()
	var lines []string

	for _, source := range strings.Split(text.raw(), "\n") {
		words := splitWords(source)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if c.pdf.GetStringWidth(candidate) <= avail {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
			}
			pieces := c.breakWord(word, avail)
			lines = append(lines, pieces[:len(pieces)-1]...)
			current = pieces[len(pieces)-1]
		}
		lines = append(lines, current)
	}
	return lines
}

// breakWord cuts word into pieces no wider than avail. Every piece holds at
// least one byte so the loop always advances.
func (c *PageCanvas) breakWord(word string, avail float64) []string {
	var pieces []string
	for len(word) > 0 {
		n := c.fitBytes(word, avail)
		pieces = append(pieces, word[:n])
		word = word[n:]
	}
	return pieces
}

// fitBytes is the length of the longest prefix of s no wider than avail,
// never less than one byte.
func (c *PageCanvas) fitBytes(s string, avail float64) int {
	n := 1
	for n < len(s) && c.pdf.GetStringWidth(s[:n+1]) <= avail {
		n++
	}
	return n
}

// ellipsize shortens line until it fits in width with a trailing "...",
// dropping whole words first and cutting inside a word when one is left.
func (c *PageCanvas) ellipsize(line string, width float64) string {
	const ellipsis = "..."
	avail := width - 2*c.pdf.GetCellMargin()

	words := splitWords(line)
	for len(words) > 1 && c.pdf.GetStringWidth(strings.Join(words, " ")+ellipsis) > avail {
		words = words[:len(words)-1]
	}
	kept := strings.Join(words, " ")
	for len(kept) > 0 && c.pdf.GetStringWidth(kept+ellipsis) > avail {
		kept = kept[:len(kept)-1]
	}
	return kept + ellipsis
}

func lineStep(line string, lineHeight float64) float64 {
	if line == "" {
		return lineHeight / 2
	}
	return lineHeight
}

// splitWords splits on ASCII blanks only; the text is single-byte encoded
// and must not be interpreted as UTF-8.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
}
