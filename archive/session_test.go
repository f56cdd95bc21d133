package archive

import (
	"io"
	"log"
	"testing"

	scalardata "github.com/lauralindzey/nui-scalar-data"
	"github.com/lauralindzey/nui-scalar-data/hub"
)

func sampleSession(t *testing.T) *Session {
	h := hub.New(hub.Options{Logger: log.New(io.Discard, "", 0)})

	cfg := scalardata.FieldConfig{
		Channel: "SCI_CTD", MsgType: "comms.ctd_t", Field: "temperature",
		SampleHz: 0, LayerName: "Temperature",
	}
	if err := h.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	h.OnMessage(scalardata.Message{
		Channel: "DIVE_INI", MsgType: "ini.dive_t", Utime: 0,
		Fields: map[string]float64{"origin_latitude": 36.7, "origin_longitude": -122.1},
	})
	for i := int64(0); i < 3; i++ {
		h.OnMessage(scalardata.Message{
			Channel: "FIBER_STATEXY", MsgType: "comms.statexy_t", Utime: i * 1_000_000,
			Fields: map[string]float64{"x": float64(i * 10), "y": float64(i * 20)},
		})
		h.OnMessage(scalardata.Message{
			Channel: "SCI_CTD", MsgType: "comms.ctd_t", Utime: i*1_000_000 + 500_000,
			Fields: map[string]float64{"temperature": 3.5 + float64(i)},
		})
	}

	return Capture(h, "dive042")
}

func TestBlobRoundtrip(t *testing.T) {
	s := sampleSession(t)

	blob,err := s.ToBlob()
	if err != nil {
		t.Fatalf("ToBlob: %v", err)
	}
	if blob.Name != "dive042" || blob.NumSeries != 1 || blob.NumSamples != 3 {
		t.Errorf("blob metadata: %q, %d series, %d samples",
			blob.Name, blob.NumSeries, blob.NumSamples)
	}

	s2,err := blob.ToSession()
	if err != nil {
		t.Fatalf("ToSession: %v", err)
	}

	if s2.Name != s.Name || s2.Origin == nil || s2.Origin.Lat0 != 36.7 {
		t.Errorf("decoded session: name=%q origin=%v", s2.Name, s2.Origin)
	}
	if len(s2.Series) != 1 || len(s2.Series[0].Samples) != 3 {
		t.Fatalf("decoded series shape wrong: %v", s2.Series)
	}
	if got := s2.Series[0].Samples[1].Value; got != 4.5 {
		t.Errorf("decoded sample value: got %f, wanted 4.5", got)
	}
	if len(s2.Tracks["FIBER_STATEXY"]) != 3 {
		t.Errorf("decoded track length: %d", len(s2.Tracks["FIBER_STATEXY"]))
	}
}

func TestForBigQueryJoins(t *testing.T) {
	s := sampleSession(t)

	rows := s.ForBigQuery()
	if len(rows) != 3 {
		t.Fatalf("got %d rows, wanted 3", len(rows))
	}

	for i,row := range rows {
		if row.Session != "dive042" || row.Field != "temperature" {
			t.Errorf("row %d identity: %+v", i, row)
		}
		if !row.Located {
			t.Errorf("row %d not georeferenced", i)
		}
	}

	// The last sample sits past the track's final fix; the join clamps
	// rather than extrapolating, so it shares the final fix's position.
	want := s.Origin.ToGeographic(20, 40)
	if rows[2].Lat != want.Lat || rows[2].Long != want.Long {
		t.Errorf("clamped row: got (%f,%f), wanted (%f,%f)",
			rows[2].Lat, rows[2].Long, want.Lat, want.Long)
	}
}

func TestForBigQueryTieBreakIsDeterministic(t *testing.T) {
	s := sampleSession(t)

	// Two tracks ending at the same utime but in different places; the
	// join must pick by name order every run, not map iteration order.
	end := s.Tracks["FIBER_STATEXY"].End()
	s.Tracks["ACOMM_STATEXY"] = scalardata.PositionTrack{
		{Utime: end, X: 500, Y: 500},
	}

	want := s.Origin.ToGeographic(500, 500)
	for run := 0; run < 20; run++ {
		rows := s.ForBigQuery()
		if rows[2].Lat != want.Lat || rows[2].Long != want.Long {
			t.Fatalf("run %d: got (%f,%f), wanted (%f,%f)",
				run, rows[2].Lat, rows[2].Long, want.Lat, want.Long)
		}
	}
}

func TestForBigQueryNoOrigin(t *testing.T) {
	s := sampleSession(t)
	s.Origin = nil

	for i,row := range s.ForBigQuery() {
		if row.Located {
			t.Errorf("row %d located without an origin", i)
		}
	}
}
