package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var palette = []color.Color{
	color.RGBA{R: 0, G: 0, B: 139, A: 255},
	color.RGBA{R: 200, G: 0, B: 0, A: 255},
	color.RGBA{R: 0, G: 120, B: 0, A: 255},
	color.RGBA{R: 139, G: 69, B: 19, A: 255},
}

// ExportMomentDiagram exports the moment series and support locations to an
// image file. The format follows the extension (.png, .svg, .pdf).
func ExportMomentDiagram(data SegmentDiagramData, filename string) error {
	p := plot.New()
	p.Title.Text = titleOr(data.Title, "Bending Moment")
	p.X.Label.Text = "Station (m)"
	p.Y.Label.Text = "Moment (kN·m)"
	p.Legend.Top = true

	if err := addSeries(p, data.Moments, false); err != nil {
		return err
	}
	if err := addSupports(p, data); err != nil {
		return err
	}
	return save(p, 8*vg.Inch, 5*vg.Inch, filename)
}

// ExportStressDiagram exports top and bottom fiber stresses with the
// allowable limits.
func ExportStressDiagram(data SegmentDiagramData, filename string) error {
	p := plot.New()
	p.Title.Text = titleOr(data.Title, "Fiber Stresses")
	p.X.Label.Text = "Station (m)"
	p.Y.Label.Text = "Stress (MPa, tension positive)"
	p.Legend.Top = true

	if err := addSeries(p, prefixed("top ", data.Top), false); err != nil {
		return err
	}
	if err := addSeries(p, prefixed("bottom ", data.Bottom), true); err != nil {
		return err
	}

	limits := []struct {
		value float64
		name  string
	}{
		{data.AllowableTension, "allowable tension"},
		{data.AllowableCompression, "allowable compression"},
	}
	for _, lim := range limits {
		if lim.value == 0 {
			continue
		}
		l, err := plotter.NewLine(plotter.XYs{{X: 0, Y: lim.value}, {X: data.Length, Y: lim.value}})
		if err != nil {
			return err
		}
		l.LineStyle.Width = vg.Points(1)
		l.LineStyle.Color = color.RGBA{R: 255, G: 165, B: 0, A: 255}
		l.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		p.Add(l)
		p.Legend.Add(lim.name, l)
	}
	return save(p, 8*vg.Inch, 5*vg.Inch, filename)
}

func addSeries(p *plot.Plot, series []Series, dashed bool) error {
	for i, s := range series {
		if len(s.Stations) != len(s.Values) {
			return fmt.Errorf("series %q has %d stations and %d values", s.Name, len(s.Stations), len(s.Values))
		}
		pts := make(plotter.XYs, len(s.Stations))
		for j := range s.Stations {
			pts[j] = plotter.XY{X: s.Stations[j], Y: s.Values[j]}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		l.LineStyle.Width = vg.Points(1.5)
		l.LineStyle.Color = palette[i%len(palette)]
		if dashed {
			l.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
		}
		p.Add(l)
		p.Legend.Add(s.Name, l)
	}
	return nil
}

func addSupports(p *plot.Plot, data SegmentDiagramData) error {
	sup, err := plotter.NewScatter(plotter.XYs{
		{X: data.LeftOverhang, Y: 0},
		{X: data.Length - data.RightOverhang, Y: 0},
	})
	if err != nil {
		return err
	}
	sup.GlyphStyle.Shape = draw.TriangleGlyph{}
	sup.GlyphStyle.Radius = vg.Points(5)
	sup.GlyphStyle.Color = color.Black
	p.Add(sup)

	axis, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: data.Length, Y: 0}})
	if err != nil {
		return err
	}
	axis.LineStyle.Color = color.Gray{Y: 128}
	axis.LineStyle.Width = vg.Points(1)
	p.Add(axis)
	return nil
}

func prefixed(prefix string, series []Series) []Series {
	out := make([]Series, len(series))
	for i, s := range series {
		s.Name = prefix + s.Name
		out[i] = s
	}
	return out
}

func titleOr(title, fallback string) string {
	if title == "" {
		return fallback
	}
	return title
}

func save(p *plot.Plot, width, height vg.Length, filename string) error {
	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
