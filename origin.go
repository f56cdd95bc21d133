package scalardata

import (
	"fmt"
	"math"

	"github.com/skypies/geo"
)

// AlvinXY predates WGS84; the meters-per-degree expansions below are the
// classic Clarke 1866 series used by the rest of the dive toolchain.
const DefaultEllipsoid = "clrk66"

// Origin anchors the vehicle's local planar frame to the globe. It is built
// from the first init event seen and is immutable; a repeated event builds a
// whole new Origin to swap in, it never mutates an existing one.
type Origin struct {
	Lat0, Lon0 float64 // reference coordinate, degrees
	Ellipsoid  string
}

func NewOrigin(ev InitEvent) (*Origin, error) {
	lat,lon := ev.ReferenceLatitude, ev.ReferenceLongitude
	if math.IsNaN(lat) || math.IsNaN(lon) || math.Abs(lat) > 90.0 || math.Abs(lon) > 360.0 {
		return nil, fmt.Errorf("NewOrigin (%.4f,%.4f): %w", lat, lon, ErrMalformedInitEvent)
	}

	// Normalize the reference longitude into [-180,180); conversions are
	// relative to it, so everything downstream inherits the convention.
	if lon >= 180.0 { lon -= 360.0 }
	if lon < -180.0 { lon += 360.0 }

	ell := ev.Ellipsoid
	if ell == "" { ell = DefaultEllipsoid }

	return &Origin{Lat0: lat, Lon0: lon, Ellipsoid: ell}, nil
}

func (o Origin)String() string {
	return fmt.Sprintf("origin (%.6f,%.6f) [%s]", o.Lat0, o.Lon0, o.Ellipsoid)
}

// ToGeographic maps local planar (x,y) meters into geographic coordinates,
// via a tangent plane centered on the reference point. Good to well under a
// meter at dive scales; nobody should be flying a vehicle hundreds of km
// from its origin on this projection.
func (o Origin)ToGeographic(x, y float64) geo.Latlong {
	return geo.Latlong{
		Lat:  y/mdeglat(o.Lat0) + o.Lat0,
		Long: x/mdeglon(o.Lat0) + o.Lon0,
	}
}

// Meters per degree of latitude at a given latitude.
func mdeglat(latDeg float64) float64 {
	latRad := latDeg * math.Pi / 180.0
	return 111132.09 -
		566.05*math.Cos(2.0*latRad) +
		1.20*math.Cos(4.0*latRad) -
		0.002*math.Cos(6.0*latRad)
}

// Meters per degree of longitude at a given latitude.
func mdeglon(latDeg float64) float64 {
	latRad := latDeg * math.Pi / 180.0
	return 111415.13*math.Cos(latRad) -
		94.55*math.Cos(3.0*latRad) +
		0.12*math.Cos(5.0*latRad)
}
