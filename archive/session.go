// Package archive persists captured dive sessions, as gob blobs in
// cloud storage and as denormalized rows in bigquery.
package archive

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	scalardata "github.com/lauralindzey/nui-scalar-data"
	"github.com/lauralindzey/nui-scalar-data/hub"
)

// A Session is everything worth keeping from a dive: the origin, the
// vehicle tracks, and the decimated scalar series with their configs.
type Session struct {
	Name    string
	SavedAt time.Time

	Origin *scalardata.Origin
	Tracks map[string]scalardata.PositionTrack
	Series []hub.SeriesSnapshot
}

// A session blob is the thing we persist into cloud storage. The
// metadata fields ride alongside the gob so listings don't need to
// decode anything.
type SessionBlob struct {
	Blob []byte

	Name       string
	SavedAt    time.Time
	NumSeries  int
	NumSamples int
}

// Capture snapshots the hub's state into a named session.
func Capture(h *hub.Hub, name string) *Session {
	origin, tracks, series := h.Snapshot()
	return &Session{
		Name:    name,
		SavedAt: time.Now(),
		Origin:  origin,
		Tracks:  tracks,
		Series:  series,
	}
}

func (s *Session)NumSamples() int {
	n := 0
	for _,ss := range s.Series {
		n += len(ss.Samples)
	}
	return n
}

func (s *Session)String() string {
	return fmt.Sprintf("%s: %d series, %d samples, %d tracks (saved %s)",
		s.Name, len(s.Series), s.NumSamples(), len(s.Tracks),
		s.SavedAt.Format("2006.01.02 15:04:05"))
}

func (s *Session)ToBlob() (*SessionBlob, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil,err
	}

	return &SessionBlob{
		Blob: buf.Bytes(),
		Name: s.Name,
		SavedAt: s.SavedAt,
		NumSeries: len(s.Series),
		NumSamples: s.NumSamples(),
	}, nil
}

func (blob *SessionBlob)ToSession() (*Session, error) {
	buf := bytes.NewBuffer(blob.Blob)
	s := Session{}
	err := gob.NewDecoder(buf).Decode(&s)
	return &s, err
}
