package hub

import (
	"fmt"
	"sort"

	"github.com/skypies/geo"

	scalardata "github.com/lauralindzey/nui-scalar-data"
)

// GeoSample pairs one stored scalar sample with the vehicle's interpolated
// geographic position at that sample's utime. Located is false when the
// origin is unset or no position data covers the session yet; the plot can
// still draw the sample, the map just can't.
type GeoSample struct {
	Utime int64
	Value float64

	geo.Latlong // zero value when not located

	Located bool
}

func (gs GeoSample)String() string {
	if !gs.Located {
		return fmt.Sprintf("[%d] %g (unlocated)", gs.Utime, gs.Value)
	}
	return fmt.Sprintf("[%d] %g @%s", gs.Utime, gs.Value, gs.Latlong)
}

// Query is the one call a view refresh needs per series: resolve the time
// window, pull the matching samples, and geolocate each one against the
// active position track.
func (h *Hub)Query(key scalardata.FieldKey, w scalardata.TimeWindow) ([]GeoSample, error) {
	h.mu.Lock()
	e,ok := h.series[key]
	if !ok {
		h.mu.Unlock()
		return nil, fmt.Errorf("Query: no series for %s", key)
	}
	iv := w.Resolve(h.maxUtimeLocked())
	samples := e.series.Query(iv)
	track := h.activeTrackLocked()
	origin := h.origin
	h.mu.Unlock()

	// The interpolation joins run outside the lock: samples is a copy, and
	// track is a snapshotted slice header whose prefix no append can touch.
	out := make([]GeoSample, 0, len(samples))
	for _,s := range samples {
		gs := GeoSample{Utime: s.Utime, Value: s.Value}
		if ll,ok := scalardata.Locate(track, origin, s.Utime); ok {
			gs.Latlong = ll
			gs.Located = true
		}
		out = append(out, gs)
	}
	return out, nil
}

// QueryCurrent runs Query against the sticky view-wide window selection.
func (h *Hub)QueryCurrent(key scalardata.FieldKey) ([]GeoSample, error) {
	return h.Query(key, h.CurrentWindow())
}

// LocateAt answers "where was the vehicle at time u", for moving the map
// cursor when the user clicks the time-series plot.
func (h *Hub)LocateAt(u int64) (geo.Latlong, bool) {
	h.mu.Lock()
	track := h.activeTrackLocked()
	origin := h.origin
	h.mu.Unlock()

	return scalardata.Locate(track, origin, u)
}

// LocateAtTrack is LocateAt pinned to one position source.
func (h *Hub)LocateAtTrack(source string, u int64) (geo.Latlong, bool) {
	h.mu.Lock()
	var track scalardata.PositionTrack
	if tr,ok := h.tracks[source]; ok {
		track = *tr
	}
	origin := h.origin
	h.mu.Unlock()

	return scalardata.Locate(track, origin, u)
}

// Bounds reports a series' full data extent, for per-series "full extent"
// axis fitting.
func (h *Hub)Bounds(key scalardata.FieldKey) (min, max int64, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e,exists := h.series[key]
	if !exists {
		return 0, 0, false
	}
	return e.series.Bounds()
}

// GeoBounds is the geographic box covering a position source's whole track.
func (h *Hub)GeoBounds(source string) (geo.LatlongBox, error) {
	h.mu.Lock()
	var track scalardata.PositionTrack
	if tr,ok := h.tracks[source]; ok {
		track = *tr
	}
	origin := h.origin
	h.mu.Unlock()

	return track.GeoBounds(origin)
}

// maxUtimeLocked is the most recent utime over all series; the trailing
// moving window anchors to this, not to any single series' max.
func (h *Hub)maxUtimeLocked() int64 {
	var max int64
	for _,e := range h.series {
		if _,hi,ok := e.series.Bounds(); ok && hi > max {
			max = hi
		}
	}
	return max
}

// activeTrackLocked picks the track to interpolate against: the one with the
// freshest fix. With a live fiber the fiber track always wins; acoustic
// fixes take over when the fiber drops. Ties break by channel name so the
// choice is deterministic.
func (h *Hub)activeTrackLocked() scalardata.PositionTrack {
	names := make([]string, 0, len(h.tracks))
	for name := range h.tracks {
		names = append(names, name)
	}
	sort.Strings(names)

	var best scalardata.PositionTrack
	for _,name := range names {
		t := *h.tracks[name]
		if len(t) == 0 {
			continue
		}
		if best == nil || t.End() > best.End() {
			best = t
		}
	}
	return best
}

// SeriesSnapshot is one series' full contents plus its configuration, as
// captured for archival.
type SeriesSnapshot struct {
	Config  scalardata.FieldConfig
	Samples []scalardata.ScalarSample
}

// Snapshot copies out everything a session archive needs. The copies are
// deep enough that the archive can be written while ingestion continues.
func (h *Hub)Snapshot() (*scalardata.Origin, map[string]scalardata.PositionTrack, []SeriesSnapshot) {
	subs := h.Subscriptions()

	h.mu.Lock()
	defer h.mu.Unlock()

	tracks := map[string]scalardata.PositionTrack{}
	for name,tr := range h.tracks {
		cp := make(scalardata.PositionTrack, len(*tr))
		copy(cp, *tr)
		tracks[name] = cp
	}

	series := make([]SeriesSnapshot, 0, len(subs))
	for _,cfg := range subs {
		e := h.series[cfg.Key()]
		if e == nil {
			continue
		}
		series = append(series, SeriesSnapshot{Config: cfg, Samples: e.series.All()})
	}

	return h.origin, tracks, series
}
