package scalardata

import (
	"github.com/skypies/geo"
)

// Locate answers "where was the vehicle at time u": interpolate the position
// track at u, then convert the local coords to geographic via the origin.
// Returns false when the origin is unset or the track has no samples; both
// are routine early in a session and neither is an error worth halting for.
//
// This one join underlies both per-sample map-marker placement and the
// "move the map cursor to the clicked time" interaction.
func Locate(t PositionTrack, o *Origin, u int64) (geo.Latlong, bool) {
	if o == nil || len(t) == 0 {
		return geo.Latlong{}, false
	}
	x,y,err := t.AtUtime(u)
	if err != nil {
		return geo.Latlong{}, false
	}
	return o.ToGeographic(x, y), true
}
