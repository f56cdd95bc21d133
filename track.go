package scalardata

import (
	"fmt"
	"sort"

	"github.com/skypies/geo"
)

// PositionSample locates the vehicle in the local planar frame at one moment.
type PositionSample struct {
	Utime int64   // vehicle timestamp, microseconds since epoch
	X, Y  float64 // meters east/north of the origin
}

func (p PositionSample)String() string {
	return fmt.Sprintf("[%s] (%.2f,%.2f)",
		UtimeToTime(p.Utime).Format("15:04:05.000000"), p.X, p.Y)
}

// A PositionTrack is the append-only sequence of position samples from one
// source (fiber, acoustic, ...), ordered by non-decreasing utime. Appends
// come from the ingestion side only; everyone else just reads.
type PositionTrack []PositionSample

func (t PositionTrack)Start() int64 { return t[0].Utime }
func (t PositionTrack)End() int64   { return t[len(t)-1].Utime }

func (t PositionTrack)String() string {
	if len(t) == 0 { return "Track: empty" }
	return fmt.Sprintf("Track: %d samples, %s -> %s",
		len(t),
		UtimeToTime(t.Start()).Format("2006.01.02 15:04:05"),
		UtimeToTime(t.End()).Format("15:04:05"))
}

// Append adds a sample to the end of the track. Samples older than the
// current end are stale (acoustic retransmits, mostly) and get dropped;
// equal timestamps are kept, in arrival order.
func (t *PositionTrack)Append(s PositionSample) bool {
	if n := len(*t); n > 0 && s.Utime < (*t)[n-1].Utime {
		return false
	}
	*t = append(*t, s)
	return true
}

// AtUtime returns the track position at time u, linearly interpolating x and
// y independently between the two bracketing samples. Times outside the
// covered span clamp to the nearest endpoint rather than extrapolating.
func (t PositionTrack)AtUtime(u int64) (x, y float64, err error) {
	if len(t) == 0 {
		return 0, 0, ErrEmptyTrack
	}
	if u <= t[0].Utime {
		return t[0].X, t[0].Y, nil
	}
	if last := t[len(t)-1]; u >= last.Utime {
		return last.X, last.Y, nil
	}

	// First sample at-or-after u; the clamps above guarantee 0 < i < len(t),
	// and that pre is strictly older than u.
	i := sort.Search(len(t), func(i int) bool { return t[i].Utime >= u })
	pre,post := t[i-1], t[i]

	ratio := float64(u-pre.Utime) / float64(post.Utime-pre.Utime)
	return interpolateFloat64(pre.X, post.X, ratio), interpolateFloat64(pre.Y, post.Y, ratio), nil
}

func interpolateFloat64(from, to, ratio float64) float64 {
	return from + (to-from)*ratio
}

// GeoBounds is the geographic box enclosing the whole track; the map view
// uses it to fit its extent.
func (t PositionTrack)GeoBounds(o *Origin) (geo.LatlongBox, error) {
	if o == nil {
		return geo.LatlongBox{}, ErrOriginUnset
	}
	if len(t) == 0 {
		return geo.LatlongBox{}, ErrEmptyTrack
	}

	first := o.ToGeographic(t[0].X, t[0].Y)
	box := first.BoxTo(first)
	for _,s := range t[1:] {
		box.Enclose(o.ToGeographic(s.X, s.Y))
	}
	return box, nil
}
