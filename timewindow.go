package scalardata

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Interval is a half-open utime range [Start,End).
type Interval struct {
	Start, End int64
}

// FullExtent is the no-constraint interval: every sample matches.
func FullExtent() Interval { return Interval{math.MinInt64, math.MaxInt64} }

func (iv Interval)Contains(u int64) bool { return u >= iv.Start && u < iv.End }
func (iv Interval)IsFull() bool          { return iv == FullExtent() }

// TextTimeLayout is the accepted absolute-timestamp form for the time-window
// text box. It is always read as UTC, never the local zone; vehicle clocks
// and shipboard wall clocks rarely agree on anything else.
const TextTimeLayout = "2006-01-02 15:04:05"

type WindowMode int

const (
	WindowFull WindowMode = iota // no constraint; per-series full extent
	WindowDrag                   // explicit [start,end) dragged out on the plot
	WindowText                   // free text: trailing seconds, or absolute start
)

// TimeWindow is the user's current time-range selection. Exactly one mode is
// active; whichever of drag or text the user touched last wins outright, the
// two are never combined.
type TimeWindow struct {
	Mode                 WindowMode
	DragStart, DragEnd   int64  // WindowDrag only
	Text                 string // WindowText only
}

func FullWindow() TimeWindow            { return TimeWindow{Mode: WindowFull} }
func DragWindow(start, end int64) TimeWindow {
	return TimeWindow{Mode: WindowDrag, DragStart: start, DragEnd: end}
}
func TextWindow(raw string) TimeWindow { return TimeWindow{Mode: WindowText, Text: raw} }

// Resolve turns the selection into a concrete interval. maxUtime is the most
// recent utime across all visible series (not per-series); it anchors the
// trailing moving window, which therefore slides forward on every refresh as
// new data arrives. Text that parses as neither a number nor a timestamp
// means "no constraint" rather than an error.
func (w TimeWindow)Resolve(maxUtime int64) Interval {
	switch w.Mode {
	case WindowDrag:
		return Interval{w.DragStart, w.DragEnd}
	case WindowText:
		return resolveText(w.Text, maxUtime)
	}
	return FullExtent()
}

func resolveText(raw string, maxUtime int64) Interval {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FullExtent()
	}

	if secs,err := strconv.ParseFloat(raw, 64); err == nil {
		if secs < 0 { secs = -secs }
		// NaN, Inf and anything past ~30Ky would overflow the utime
		// arithmetic; such a window is indistinguishable from "everything".
		if math.IsNaN(secs) || secs > 1e12 {
			return FullExtent()
		}
		// End sits one microsecond past the newest sample so that the
		// sample at maxUtime itself lands inside the half-open interval.
		return Interval{maxUtime - int64(secs*1e6), maxUtime + 1}
	}

	if t,err := time.ParseInLocation(TextTimeLayout, raw, time.UTC); err == nil {
		// "Everything since"
		return Interval{TimeToUtime(t), math.MaxInt64}
	}

	return FullExtent()
}
