package plot

import (
	"fmt"
	"os"
	"path/filepath"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// BoxPlotter draws one figure per metric with a box for each label group
type BoxPlotter struct {
	Title      string
	Width      vg.Length
	Height     vg.Length
	BoxWidth   vg.Length
	GroupNames [2]string
}

// NewBoxPlotter creates a plotter producing widthIn x heightIn inch figures
func NewBoxPlotter(title string, widthIn, heightIn float64, groupNames [2]string) *BoxPlotter {
	return &BoxPlotter{
		Title:      title,
		Width:      vg.Length(widthIn) * vg.Inch,
		Height:     vg.Length(heightIn) * vg.Inch,
		BoxWidth:   vg.Points(80),
		GroupNames: groupNames,
	}
}

// Plot renders both group distributions of metric to path. The image
// format follows the file extension. Non-finite values are left out and a
// group without values gets no box.
func (b *BoxPlotter) Plot(metric string, reals, fakes []float64, path string) error {
	p := gonumplot.New()
	p.Title.Text = b.Title
	p.Y.Label.Text = metric

	for i, group := range [][]float64{reals, fakes} {
		data, _ := finite(group)
		if len(data) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(b.BoxWidth, float64(i), plotter.Values(data))
		if err != nil {
			return fmt.Errorf("box plot for %s: %w", b.GroupNames[i], err)
		}
		p.Add(box)
	}
	p.NominalX(b.GroupNames[0], b.GroupNames[1])

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(b.Width, b.Height, path)
}

// FileName is the figure name for metric
func FileName(metric string) string {
	return metric + ".png"
}
