package imagery

import (
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	placeholderWidth   = 380
	placeholderHeight  = 170
	placeholderCaption = "(Property Image Placeholder)"
)

var (
	placeholderOnce  sync.Once
	placeholderImage Image
)

// Placeholder returns a grey picture captioned as a property image
// placeholder, in the same 190:85 proportions as the brochure image slot.
func Placeholder() Image {
	placeholderOnce.Do(func() {
		placeholderImage = drawPlaceholder()
	})
	img := placeholderImage
	img.Data = append([]byte(nil), placeholderImage.Data...)
	return img
}

func drawPlaceholder() Image {
	canvas := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.RGBA{220, 220, 220, 255}), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.RGBA{100, 100, 100, 255}),
		Face: basicfont.Face7x13,
	}
	textWidth := d.MeasureString(placeholderCaption).Ceil()
	d.Dot = fixed.P((placeholderWidth-textWidth)/2, placeholderHeight/2+basicfont.Face7x13.Ascent/2)
	d.DrawString(placeholderCaption)

	img, err := FromImage(canvas)
	if err != nil {
		// An in-memory RGBA image always encodes.
		panic(err)
	}
	img.Placeholder = true
	return img
}
