package ui

import (
	"net/http"

	"github.com/skypies/util/widget"

	scalardata "github.com/lauralindzey/nui-scalar-data"
	"github.com/lauralindzey/nui-scalar-data/pdf"
)

// {{{ s.plotHandler

// ?channel=SCI_CTD&type=comms.ctd_t&field=temperature  (repeatable triple? no - see below)
//  &field=temperature&field=depth  (extra fields from the same channel/type)
//  &start=N&end=N / &window=...    (as per /api/query)
//  &dot=0.8                        (dot radius, mm)

func (s *Server)plotHandler(w http.ResponseWriter, r *http.Request) {
	key,err := formValueKey(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	win := formValueWindow(r, s.Hub)

	keys := []scalardata.FieldKey{}
	for _,field := range r.Form["field"] {
		keys = append(keys, scalardata.FieldKey{
			Channel: key.Channel, MsgType: key.MsgType, Field: field,
		})
	}

	// Resolve the window against the data once, so every series shares an axis
	lo,hi := int64(0),int64(1)
	for _,k := range keys {
		if min,max,ok := s.Hub.Bounds(k); ok {
			if lo == 0 || min < lo { lo = min }
			if max+1 > hi { hi = max + 1 }
		}
	}
	iv := win.Resolve(hi - 1)
	if iv.IsFull() {
		iv = scalardata.Interval{Start: lo, End: hi}
	}

	g := pdf.SeriesPdf{DotRadius: widget.FormValueFloat64EatErrs(r, "dot")}
	g.Init(iv)

	for _,k := range keys {
		samples,err := s.Hub.Query(k, win)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		scalars := make([]scalardata.ScalarSample, len(samples))
		for i,gs := range samples {
			scalars[i] = scalardata.ScalarSample{Utime: gs.Utime, Value: gs.Value}
		}
		g.AddSeries(k.String(), scalars)
		g.Caption += k.String() + "\n"
	}

	g.DrawCaption()

	w.Header().Set("Content-Type", "application/pdf")
	if err := g.Output(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
