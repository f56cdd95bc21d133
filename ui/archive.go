package ui

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lauralindzey/nui-scalar-data/archive"
)

// {{{ s.archiveHandler

// ?name=dive042  (defaults to a timestamped name)
//  &publish=1    (also stream rows into bigquery)

func (s *Server)archiveHandler(w http.ResponseWriter, r *http.Request) {
	tStart := time.Now()
	ctx := r.Context()

	name := r.FormValue("name")
	if name == "" {
		name = "session-" + time.Now().UTC().Format("20060102-150405")
	}

	sesh := archive.Capture(s.Hub, name)

	if err := archive.PutGCS(ctx, s.Bucket, sesh); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	str := fmt.Sprintf("OK\n%s written to gs://%s - took %s\n",
		sesh, s.Bucket, time.Since(tStart))

	if r.FormValue("publish") != "" && s.BQProject != "" {
		n,err := archive.Publish(ctx, s.BQProject, s.BQDataset, s.BQTable, sesh)
		if err != nil {
			http.Error(w, "publish failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		str += fmt.Sprintf("%d rows sent to %s.%s.%s\n",
			n, s.BQProject, s.BQDataset, s.BQTable)
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(str))
}

// }}}
// {{{ s.sessionsHandler

func (s *Server)sessionsHandler(w http.ResponseWriter, r *http.Request) {
	names,err := archive.ListGCS(r.Context(), s.Bucket)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	str := fmt.Sprintf("OK\n%d sessions in gs://%s\n", len(names), s.Bucket)
	for _,name := range names {
		str += fmt.Sprintf(" * %s\n", name)
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(str))
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
