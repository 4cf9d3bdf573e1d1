package visualise

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Grid lays images out left to right in a single row of fixed-size tiles,
// each annotated with its metric value.
type Grid struct {
	TileWidth  int
	TileHeight int
	// Precision is the number of decimal places shown in annotations
	Precision  int
	Background color.Color
}

// NewGrid creates a grid with the given tile size and label precision
func NewGrid(tileWidth, tileHeight, precision int) *Grid {
	return &Grid{
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Precision:  precision,
		Background: color.Black,
	}
}

// Render scales every image into its tile and draws the rounded value over
// the bottom-left corner.
func (g *Grid) Render(images []image.Image, values []float64) (*image.RGBA, error) {
	if len(images) != len(values) {
		return nil, fmt.Errorf("got %d images for %d values", len(images), len(values))
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no images to render")
	}
	if g.TileWidth <= 0 || g.TileHeight <= 0 {
		return nil, fmt.Errorf("invalid tile size %dx%d", g.TileWidth, g.TileHeight)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, g.TileWidth*len(images), g.TileHeight))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{g.Background}, image.Point{}, draw.Src)

	for i, img := range images {
		tile := image.Rect(i*g.TileWidth, 0, (i+1)*g.TileWidth, g.TileHeight)
		if img != nil {
			draw.ApproxBiLinear.Scale(canvas, tile, img, img.Bounds(), draw.Src, nil)
		}
		annotate(canvas, tile, FormatValue(values[i], g.Precision))
	}
	return canvas, nil
}

// FormatValue rounds v to precision decimal places and drops trailing zeros
func FormatValue(v float64, precision int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	scale := math.Pow(10, float64(precision))
	rounded := math.Round(v*scale) / scale
	if rounded == 0 {
		// -0 prints as "-0"
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func annotate(dst *image.RGBA, tile image.Rectangle, text string) {
	face := basicfont.Face7x13
	pad := 6

	dr := &font.Drawer{Dst: dst, Src: image.NewUniform(color.White), Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := tile.Min.X + 8
	y := tile.Max.Y - 6

	bg := image.NewUniform(color.RGBA{A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2).Intersect(tile)
	draw.Draw(dst, rect, bg, image.Point{}, draw.Over)

	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
}
