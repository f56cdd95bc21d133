package hub

import (
	"time"

	scalardata "github.com/lauralindzey/nui-scalar-data"
	"github.com/lauralindzey/nui-scalar-data/metrics"
)

// {{{ h.OnMessage

// OnMessage is the sole streaming entry point; the transport calls it once
// per decoded message. Classification is not exclusive: a position channel
// can also carry configured scalar fields, and both paths see the message.
// Nothing in here blocks on I/O, so the delivery goroutine is never held up
// for long.
func (h *Hub)OnMessage(m scalardata.Message) {
	tStart := time.Now()

	if h.posChannels[m.Channel] {
		h.onPosition(m)
	}
	if m.Channel == h.initChannel {
		h.onInit(m)
	}
	h.onScalar(m)

	h.mu.Lock()
	h.stats.RecordValue("dispatch_us", time.Since(tStart).Microseconds())
	h.mu.Unlock()
}

// }}}
// {{{ h.onPosition

// Position samples are never decimated; the interpolator wants all of them.
// Stale samples (utime running backwards, common with acoustic retransmits)
// are dropped by the track itself.
func (h *Hub)onPosition(m scalardata.Message) {
	x,errX := m.Scalar("x")
	y,errY := m.Scalar("y")
	if errX != nil || errY != nil {
		metrics.PositionMalformed(m.Channel)
		h.Errorf("OnMessage: %s: position message without x/y fields", m.Channel)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	tr,ok := h.tracks[m.Channel]
	if !ok {
		tr = &scalardata.PositionTrack{}
		h.tracks[m.Channel] = tr
	}
	if !tr.Append(scalardata.PositionSample{Utime: m.Utime, X: x, Y: y}) {
		metrics.PositionStale(m.Channel)
		h.Debugf("OnMessage: received stale msg: %s", m.Channel)
		return
	}
	metrics.PositionAccepted(m.Channel)
}

// }}}
// {{{ h.onInit, h.HandleInit

func (h *Hub)onInit(m scalardata.Message) {
	lat,errA := m.Scalar("origin_latitude")
	lon,errB := m.Scalar("origin_longitude")
	if errA != nil || errB != nil {
		h.Errorf("OnMessage: %s: init event without origin fields", m.Channel)
		return
	}
	if err := h.HandleInit(scalardata.InitEvent{
		ReferenceLatitude:  lat,
		ReferenceLongitude: lon,
	}); err != nil {
		h.Errorf("OnMessage: %v", err)
	}
}

// HandleInit consumes an initialization event. A malformed event leaves any
// previous origin untouched; a valid repeat replaces the origin wholesale.
func (h *Hub)HandleInit(ev scalardata.InitEvent) error {
	o,err := scalardata.NewOrigin(ev)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.origin != nil {
		h.Infof("HandleInit: replacing %s with %s", h.origin, o)
	} else {
		h.Infof("HandleInit: got %s", o)
	}
	h.origin = o
	return nil
}

// }}}
// {{{ h.onScalar

func (h *Hub)onScalar(m scalardata.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key,e := range h.series {
		if key.Channel != m.Channel || key.MsgType != m.MsgType {
			continue
		}

		v,err := m.Scalar(key.Field)
		if err != nil {
			// Per-sample and non-fatal: drop this one, keep ingesting
			// everything else.
			metrics.FieldMissing(key.String())
			h.Errorf("OnMessage: %v", err)
			continue
		}

		if !e.series.Accept(scalardata.ScalarSample{Utime: m.Utime, Value: v}, e.cfg.DecimationPeriod()) {
			metrics.SampleDecimated(key.String())
			continue
		}
		metrics.SampleAccepted(key.String())
	}
}

// }}}
