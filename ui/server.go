// Package ui exposes the hub over HTTP, for plot frontends and for
// poking at a live system with curl.
package ui

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/skypies/util/widget"

	scalardata "github.com/lauralindzey/nui-scalar-data"
	"github.com/lauralindzey/nui-scalar-data/hub"
	"github.com/lauralindzey/nui-scalar-data/metrics"
)

type Server struct {
	Hub *hub.Hub

	// Session archive destinations; blank disables the /api/archive handler.
	Bucket    string
	BQProject string
	BQDataset string
	BQTable   string
}

func (s *Server)AddHandlers(mux *http.ServeMux) {
	handle := func(path string, hf http.HandlerFunc) {
		mux.Handle(path, metrics.Middleware(hf))
	}

	handle("/api/fields",    s.fieldsHandler)
	handle("/api/configure", s.configureHandler)
	handle("/api/remove",    s.removeHandler)
	handle("/api/clear",     s.clearHandler)
	handle("/api/query",     s.queryHandler)
	handle("/api/locate",    s.locateHandler)
	handle("/api/window",    s.windowHandler)
	handle("/api/plot.pdf",  s.plotHandler)
	handle("/api/stats",     s.statsHandler)
	if s.Bucket != "" {
		handle("/api/archive",  s.archiveHandler)
		handle("/api/sessions", s.sessionsHandler)
	}
}

// {{{ formValueKey

// ?channel=SCI_CTD&type=comms.ctd_t&field=temperature
func formValueKey(r *http.Request) (scalardata.FieldKey, error) {
	key := scalardata.FieldKey{
		Channel: r.FormValue("channel"),
		MsgType: r.FormValue("type"),
		Field:   r.FormValue("field"),
	}
	if key.Channel == "" || key.MsgType == "" || key.Field == "" {
		return key, fmt.Errorf("need 'channel', 'type' and 'field' args")
	}
	return key, nil
}

// }}}
// {{{ formValueWindow

// ?start=N&end=N  (utimes; a drag selection)
//  &window=30     (trailing window, in seconds)
//  &window=2026-01-15 12:00:00  (everything after an instant, UTC)
// no args == whatever window the hub currently holds

func formValueWindow(r *http.Request, h *hub.Hub) scalardata.TimeWindow {
	if start := widget.FormValueInt64(r, "start"); start > 0 {
		if end := widget.FormValueInt64(r, "end"); end > start {
			return scalardata.DragWindow(start, end)
		}
	}
	if text := r.FormValue("window"); text != "" {
		return scalardata.TextWindow(text)
	}
	return h.CurrentWindow()
}

// }}}

// {{{ s.fieldsHandler

func (s *Server)fieldsHandler(w http.ResponseWriter, r *http.Request) {
	jsonBytes,err := json.MarshalIndent(s.Hub.Subscriptions(), "", " ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonBytes)
}

// }}}
// {{{ s.configureHandler

// ?channel=SCI_CTD&type=comms.ctd_t&field=temperature
//  &hz=1              (sample rate; 0 or absent == keep everything)
//  &layer=Temperature (display name; defaults to channel/field)
//  &newlayer=1        (ask the frontend to create a fresh layer)

func (s *Server)configureHandler(w http.ResponseWriter, r *http.Request) {
	key,err := formValueKey(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	layer := r.FormValue("layer")
	if layer == "" { layer = key.String() }

	cfg := scalardata.FieldConfig{
		Channel: key.Channel,
		MsgType: key.MsgType,
		Field: key.Field,
		SampleHz: widget.FormValueFloat64EatErrs(r, "hz"),
		LayerName: layer,
		CreateLayer: widget.FormValueCheckbox(r, "newlayer"),
	}

	if err := s.Hub.Configure(cfg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(fmt.Sprintf("OK\nconfigured %s at %.2gHz\n", key, cfg.SampleHz)))
}

// }}}
// {{{ s.removeHandler, s.clearHandler

func (s *Server)removeHandler(w http.ResponseWriter, r *http.Request) {
	key,err := formValueKey(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !s.Hub.Remove(key) {
		http.Error(w, fmt.Sprintf("field %s not configured", key), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(fmt.Sprintf("OK\nremoved %s\n", key)))
}

func (s *Server)clearHandler(w http.ResponseWriter, r *http.Request) {
	key,err := formValueKey(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !s.Hub.Clear(key) {
		http.Error(w, fmt.Sprintf("field %s not configured", key), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(fmt.Sprintf("OK\ncleared %s\n", key)))
}

// }}}
// {{{ s.queryHandler

// Returns the field's samples inside the time window, georeferenced
// where the position track allows.

func (s *Server)queryHandler(w http.ResponseWriter, r *http.Request) {
	key,err := formValueKey(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	samples,err := s.Hub.Query(key, formValueWindow(r, s.Hub))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	jsonBytes,err := json.MarshalIndent(samples, "", " ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonBytes)
}

// }}}
// {{{ s.locateHandler

// ?t=1700000000000000  (utime)
//  &track=ACOMM_STATEXY (optional; defaults to the freshest track)

func (s *Server)locateHandler(w http.ResponseWriter, r *http.Request) {
	u := widget.FormValueInt64(r, "t")
	if u == 0 {
		http.Error(w, "need 't=<utime>' arg", http.StatusBadRequest)
		return
	}

	var ll struct {
		Lat, Long float64
		Located   bool
	}
	if source := r.FormValue("track"); source != "" {
		pos,ok := s.Hub.LocateAtTrack(source, u)
		ll.Lat, ll.Long, ll.Located = pos.Lat, pos.Long, ok
	} else {
		pos,ok := s.Hub.LocateAt(u)
		ll.Lat, ll.Long, ll.Located = pos.Lat, pos.Long, ok
	}

	jsonBytes,_ := json.MarshalIndent(ll, "", " ")
	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonBytes)
}

// }}}
// {{{ s.windowHandler

// Sets the hub's shared time window, so every subscribed layer trims in
// step. Takes the same args as formValueWindow; no args resets to the
// full extent.

func (s *Server)windowHandler(w http.ResponseWriter, r *http.Request) {
	win := scalardata.FullWindow()
	if widget.FormValueInt64(r, "start") > 0 || r.FormValue("window") != "" {
		win = formValueWindow(r, s.Hub)
	}
	s.Hub.SetWindow(win)

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("OK\n"))
}

// }}}
// {{{ s.statsHandler

func (s *Server)statsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(s.Hub.Stats() + "\n"))
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
