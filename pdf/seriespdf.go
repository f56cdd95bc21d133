package pdf

import (
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	scalardata "github.com/lauralindzey/nui-scalar-data"
)

var (
	RedRGB    = []int{0xff, 0, 0}
	GreenRGB  = []int{0, 0xa0, 0}
	BlueRGB   = []int{0, 0, 0xff}
	OrangeRGB = []int{0xe0, 0x70, 0}
	PurpleRGB = []int{0x90, 0, 0x90}

	seriesColors = [][]int{RedRGB, BlueRGB, GreenRGB, OrangeRGB, PurpleRGB}
)

// SeriesPdf overlays scalar series onto a single shared time axis, each
// series scaled onto its own vertical range.
type SeriesPdf struct {
	Start, End   int64 // utime extent of the shared x-axis
	DotRadius    float64

	Grids        []*BaseGrid
	*gofpdf.Fpdf // Embedded pointer

	Caption string
}

// {{{ sp.Init

func (g *SeriesPdf)Init(iv scalardata.Interval) {
	g.Fpdf = gofpdf.New("L", "mm", "Letter", "")
	g.AddPage()
	g.SetFont("Arial", "", 10)

	if g.DotRadius == 0.0 { g.DotRadius = 0.5 }

	g.Start, g.End = iv.Start, iv.End
	if g.End <= g.Start { g.End = g.Start + 1 }
}

// }}}
// {{{ sp.AddSeries

// AddSeries overlays one series onto the shared time axis. Each call gets
// the next color, and its own y-scale derived from the samples.
func (g *SeriesPdf)AddSeries(label string, samples []scalardata.ScalarSample) {
	color := seriesColors[len(g.Grids) % len(seriesColors)]

	minY,maxY := valueExtent(samples)

	spanSec := float64(g.End - g.Start) / 1e6
	ng := &BaseGrid{
		Fpdf: g.Fpdf,
		OffsetU: 35,
		OffsetV: 30,
		W: 210,
		H: 150,
		MinX: 0,
		MaxX: spanSec,
		MinY: minY,
		MaxY: maxY,
		XGridlineEvery: niceStep(spanSec),
		YGridlineEvery: (maxY - minY) / 5,
		YTickFmt: "%.2f",
		Clip: true,
		LineColor: color,
	}

	// The first series owns the gridlines and time ticks; overlays draw
	// just their own y-scale, on the far side.
	if len(g.Grids) == 0 {
		ng.XTickFunc = func(x float64) string {
			u := g.Start + int64(x*1e6)
			return scalardata.UtimeToTime(u).UTC().Format("15:04:05")
		}
	} else {
		ng.NoGridlines = true
		ng.YTickOtherSide = (len(g.Grids) % 2 == 1)
	}

	ng.DrawGridlines()

	for _,s := range samples {
		ng.Dot(float64(s.Utime - g.Start)/1e6, s.Value, g.DotRadius)
	}
	ng.DrawPath("D")

	// Legend entry, stacked under the grid
	ng.MaybeSetTextColor()
	g.Fpdf.MoveTo(35, 185 + float64(len(g.Grids))*5)
	g.Cell(100, 4, fmt.Sprintf("%s  [%.3f .. %.3f]", label, minY, maxY))
	g.DrawPath("D")

	g.Grids = append(g.Grids, ng)
}

// }}}
// {{{ sp.DrawCaption

func (g SeriesPdf)DrawCaption() {
	if g.Caption == "" { return }
	g.SetTextColor(0x50, 0x70, 0xc0)
	g.Fpdf.MoveTo(10, 10)
	g.MultiCell(0, 4, g.Caption, "", "", false)
	g.DrawPath("D")
}

// }}}
// {{{ sp.Output

func (g SeriesPdf)Output(w io.Writer) error {
	return g.Fpdf.Output(w)
}

// }}}

// {{{ valueExtent, niceStep

func valueExtent(samples []scalardata.ScalarSample) (float64, float64) {
	if len(samples) == 0 { return 0,1 }

	minY,maxY := samples[0].Value, samples[0].Value
	for _,s := range samples {
		if s.Value < minY { minY = s.Value }
		if s.Value > maxY { maxY = s.Value }
	}
	if minY == maxY { // flatline; give the grid some height
		minY, maxY = minY-0.5, maxY+0.5
	}
	return minY,maxY
}

// niceStep picks a round gridline interval giving 5-10 ticks over the span.
func niceStep(span float64) float64 {
	if span <= 0 { return 1 }
	raw := span / 8
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch {
	case raw/mag < 2:
		return 2 * mag
	case raw/mag < 5:
		return 5 * mag
	}
	return 10 * mag
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
