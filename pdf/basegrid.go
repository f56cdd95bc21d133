// Package pdf renders scalar series into PDF strip charts.
package pdf

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Describes a grid we're going to plot over, and the location of its top-left
// corner in PDF space.
type BaseGrid struct {
	*gofpdf.Fpdf // Embed the thing we're writing to

	// Describe the portion of PDF page space the grid will be drawn over
	// (labels go outside of this)
	OffsetU float64
	OffsetV float64
	W,H     float64 // width and height of the grid, in PDF units (should be mm)

	// Control how (x,y) vals are mapped into (u,v) vals
	MinX,MinY,MaxX,MaxY float64 // the range of values that should be scaled onto the grid
	Clip                bool    // whether to drop marks that fall outside the grid

	// How to draw gridlines
	NoGridlines                    bool
	XGridlineEvery, YGridlineEvery float64 // From Min[XY] to Max[XY]
	XTickFunc                      func(float64) string // blank string == no tick
	YTickFmt                       string  // Will be passed a float64 via fmt.Sprintf; blank==none
	YTickOtherSide                 bool

	// Other formatting
	LineColor []int // rgb, each [0,255]
}

// {{{ bg.U, V, UV

// the bool is whether the coords are out-of-bounds for the grid.
func (bg BaseGrid)U(x float64) (float64, bool) {
	// Scale the X value to [0.0, 1.0], then map into PDF coords
	xRatio := (x - bg.MinX) / (bg.MaxX - bg.MinX)

	u := bg.OffsetU + (xRatio * bg.W)
	outOfBounds := xRatio<0 || xRatio>1

	return u,outOfBounds
}

func (bg BaseGrid)V(y float64) (float64, bool) {
	yRatio := (y - bg.MinY) / (bg.MaxY - bg.MinY)

	v := bg.OffsetV + (bg.H - (yRatio * bg.H))
	outOfBounds := yRatio<0 || yRatio>1

	return v,outOfBounds
}

func (bg BaseGrid)UV(x,y float64) (float64, float64, bool) {
	u,oobU := bg.U(x)
	v,oobV := bg.V(y)

	return u, v, (oobU || oobV)
}

// }}}
// {{{ bg.MoveBy

func (bg BaseGrid)MoveBy(x,y float64) {
	currX,currY := bg.GetXY()
	bg.Fpdf.MoveTo(currX+x, currY+y)
}

// }}}
// {{{ bg.MaybeSet{Draw|Text}Color

func (bg BaseGrid)MaybeSetDrawColor() {
	if len(bg.LineColor) == 3 {
		bg.SetDrawColor(bg.LineColor[0], bg.LineColor[1], bg.LineColor[2])
	}
}

func (bg BaseGrid)MaybeSetTextColor() {
	if len(bg.LineColor) == 3 {
		bg.SetTextColor(bg.LineColor[0], bg.LineColor[1], bg.LineColor[2])
	}
}

// }}}
// {{{ bg.MoveTo, LineTo, Dot

// We submit coords in gridspace (e.g. x,y), and the grid transforms them
// into PDFspace.
func (bg BaseGrid)MoveTo(x,y float64) bool {
	u,v,oob := bg.UV(x,y)
	bg.Fpdf.MoveTo(u,v)
	return oob
}

func (bg BaseGrid)LineTo(x,y float64) bool {
	u,v,oob := bg.UV(x,y)
	bg.Fpdf.LineTo(u,v)
	return oob
}

// Dot plots a single sample as a filled circle, radius in mm.
func (bg BaseGrid)Dot(x,y,r float64) {
	u,v,oob := bg.UV(x,y)
	if bg.Clip && oob { return }

	if len(bg.LineColor) == 3 {
		bg.SetFillColor(bg.LineColor[0], bg.LineColor[1], bg.LineColor[2])
	}
	bg.Circle(u, v, r, "F")
}

// }}}

// {{{ bg.DrawGridlines

func (bg BaseGrid)DrawGridlines() {
	bg.SetFont("Arial", "", 8)

	bg.SetLineWidth(0.03)
	bg.SetDrawColor(0xe0, 0xe0, 0xe0)
	for x := bg.MinX; x <= bg.MaxX; x += bg.XGridlineEvery {
		if !bg.NoGridlines {
			bg.MoveTo(x, bg.MinY)
			bg.LineTo(x, bg.MaxY)
		}

		if bg.XTickFunc != nil {
			if tick := bg.XTickFunc(x); tick != "" {
				bg.MoveTo(x, bg.MinY)
				bg.MoveBy(-8, 2) // Offset in MM
				bg.SetTextColor(0,0,0)
				bg.Cell(30, float64(4), tick)
				bg.DrawPath("D")
			}
		}
	}

	bg.SetLineWidth(0.03)
	bg.SetDrawColor(0xe0, 0xe0, 0xe0)
	for y := bg.MinY; y <= bg.MaxY; y += bg.YGridlineEvery {
		if !bg.NoGridlines {
			bg.MoveTo(bg.MinX, y)
			bg.LineTo(bg.MaxX, y)
		}

		align := "L"
		if bg.YTickFmt != "" {
			if bg.YTickOtherSide {
				bg.MoveTo(bg.MinX, y)
				bg.MoveBy(-19, -2)
				align = "R"
			} else {
				bg.MoveTo(bg.MaxX, y)
				bg.MoveBy(0.5, -2)
			}

			bg.MaybeSetTextColor()
			bg.CellFormat(18, 4, fmt.Sprintf(bg.YTickFmt, y), "", 0, align, false, 0, "")
			bg.DrawPath("D")
		}
	}
	bg.DrawPath("D")
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
