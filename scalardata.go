// Package scalardata holds the streaming data core for live scalar telemetry
// from the vehicle: per-source position tracks, per-field decimated scalar
// series, the map origin, and the time/space interpolation that joins them.
// The GUI, the map layers, and the transport all live elsewhere; everything
// here is plain in-memory data and pure computation.
package scalardata

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrOriginUnset           = errors.New("origin not yet initialized")
	ErrFieldNotFound         = errors.New("field not present in message")
	ErrEmptyTrack            = errors.New("position track has no samples")
	ErrMalformedInitEvent    = errors.New("malformed init event")
	ErrUnsupportedFieldShape = errors.New("only top-level scalar fields are supported")
)

// All timestamps in this package are utimes: vehicle clock, microseconds
// since the unix epoch. Wall-clock arrival time is never used.

func UtimeToTime(u int64) time.Time { return time.UnixMicro(u).UTC() }
func TimeToUtime(t time.Time) int64 { return t.UnixMicro() }

// Message is one decoded telemetry message: a flat name->value mapping of
// numeric fields, plus the vehicle timestamp. The transport owns the wire
// encoding; by the time a Message reaches this package it is already decoded.
type Message struct {
	Channel string
	MsgType string
	Utime   int64
	Fields  map[string]float64
}

// Scalar looks up a top-level field by name. Nested paths and array indices
// are rejected when the field is configured, so a plain map lookup is all we
// ever need here.
func (m Message)Scalar(name string) (float64, error) {
	v,ok := m.Fields[name]
	if !ok {
		return 0, fmt.Errorf("%s.%s: %w", m.MsgType, name, ErrFieldNotFound)
	}
	return v, nil
}

// InitEvent is the distinguished one-time initialization event that anchors
// the local planar frame to the globe.
type InitEvent struct {
	ReferenceLatitude  float64
	ReferenceLongitude float64
	Ellipsoid          string // blank means DefaultEllipsoid
}
