package hub

import (
	"io"
	"log"
	"testing"

	scalardata "github.com/lauralindzey/nui-scalar-data"
)

func newTestHub() *Hub {
	return New(Options{Logger: log.New(io.Discard, "", 0)})
}

func posMsg(channel string, u int64, x, y float64) scalardata.Message {
	return scalardata.Message{
		Channel: channel,
		MsgType: "comms.statexy_t",
		Utime:   u,
		Fields:  map[string]float64{"x": x, "y": y},
	}
}

func initMsg(lat, lon float64) scalardata.Message {
	return scalardata.Message{
		Channel: DefaultInitChannel,
		MsgType: "ini.dive_t",
		Utime:   0,
		Fields:  map[string]float64{"origin_latitude": lat, "origin_longitude": lon},
	}
}

func ctdMsg(u int64, temp float64) scalardata.Message {
	return scalardata.Message{
		Channel: "SCI_CTD",
		MsgType: "comms.ctd_t",
		Utime:   u,
		Fields:  map[string]float64{"temperature": temp, "salinity": 35.0},
	}
}

func ctdConfig(hz float64) scalardata.FieldConfig {
	return scalardata.FieldConfig{
		Channel: "SCI_CTD", MsgType: "comms.ctd_t", Field: "temperature",
		SampleHz: hz, LayerName: "Temperature", CreateLayer: true,
	}
}

func TestConfigureReplaceKeepsBuffer(t *testing.T) {
	h := newTestHub()
	if err := h.Configure(ctdConfig(10)); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	for i := int64(0); i < 5; i++ {
		h.OnMessage(ctdMsg(i*1_000_000, 3.5))
	}

	// Same identity triple again: stored samples must survive, undoubled.
	if err := h.Configure(ctdConfig(2)); err != nil {
		t.Fatalf("re-Configure: %v", err)
	}

	got,err := h.Query(ctdConfig(2).Key(), scalardata.FullWindow())
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("after identical-key reconfigure: got %d samples, wanted 5", len(got))
	}
}

func TestConfigureRejectsBadShapes(t *testing.T) {
	h := newTestHub()
	cfg := ctdConfig(1)
	cfg.Field = "profile[3]"
	if err := h.Configure(cfg); err == nil {
		t.Errorf("array-indexed field accepted at configure time")
	}
}

func TestDispatchDecimates(t *testing.T) {
	h := newTestHub()
	if err := h.Configure(ctdConfig(1)); err != nil { // 1Hz -> 1s period
		t.Fatalf("Configure: %v", err)
	}

	// 10Hz input for 3 seconds of message time
	for u := int64(0); u < 3_000_000; u += 100_000 {
		h.OnMessage(ctdMsg(u, 3.5))
	}

	got,_ := h.Query(ctdConfig(1).Key(), scalardata.FullWindow())
	if len(got) != 3 {
		t.Errorf("decimation: got %d samples, wanted 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Utime-got[i-1].Utime < 1_000_000 {
			t.Errorf("samples %d,%d closer than the decimation period", i-1, i)
		}
	}
}

func TestDispatchMissingFieldIsNonFatal(t *testing.T) {
	h := newTestHub()
	if err := h.Configure(ctdConfig(0)); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	other := scalardata.FieldConfig{
		Channel: "SCI_CTD", MsgType: "comms.ctd_t", Field: "salinity",
		SampleHz: 0, LayerName: "Salinity",
	}
	if err := h.Configure(other); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	// A message missing "temperature" must still feed the salinity series.
	h.OnMessage(scalardata.Message{
		Channel: "SCI_CTD", MsgType: "comms.ctd_t", Utime: 1_000_000,
		Fields: map[string]float64{"salinity": 34.9},
	})
	h.OnMessage(ctdMsg(2_000_000, 3.5))

	temp,_ := h.Query(ctdConfig(0).Key(), scalardata.FullWindow())
	sal,_ := h.Query(other.Key(), scalardata.FullWindow())
	if len(temp) != 1 {
		t.Errorf("temperature series: got %d samples, wanted 1", len(temp))
	}
	if len(sal) != 2 {
		t.Errorf("salinity series: got %d samples, wanted 2", len(sal))
	}
}

func TestDispatchIgnoresUnmatchedMessages(t *testing.T) {
	h := newTestHub()
	if err := h.Configure(ctdConfig(0)); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	// Wrong channel, and right channel but wrong type: neither may land.
	h.OnMessage(scalardata.Message{Channel: "SCI_O2", MsgType: "comms.ctd_t",
		Utime: 1, Fields: map[string]float64{"temperature": 1}})
	h.OnMessage(scalardata.Message{Channel: "SCI_CTD", MsgType: "comms.o2_t",
		Utime: 2, Fields: map[string]float64{"temperature": 2}})

	got,_ := h.Query(ctdConfig(0).Key(), scalardata.FullWindow())
	if len(got) != 0 {
		t.Errorf("unmatched messages stored: %d samples", len(got))
	}
}

func TestPositionStaleDropped(t *testing.T) {
	h := newTestHub()

	h.OnMessage(posMsg("FIBER_STATEXY", 2_000_000, 0, 0))
	h.OnMessage(posMsg("FIBER_STATEXY", 1_000_000, 99, 99)) // stale
	h.OnMessage(posMsg("FIBER_STATEXY", 3_000_000, 10, 10))
	h.OnMessage(initMsg(0, 0))

	ll,ok := h.LocateAtTrack("FIBER_STATEXY", 2_500_000)
	if !ok {
		t.Fatalf("LocateAtTrack unavailable")
	}
	// If the stale sample had been kept the interpolation would be skewed;
	// halfway between (0,0) and (10,10) is a tiny positive lat/lon.
	if ll.Lat <= 0 || ll.Long <= 0 {
		t.Errorf("interpolation skewed by stale sample: %v", ll)
	}
}

func TestLocateBeforeOriginIsUnavailable(t *testing.T) {
	h := newTestHub()
	h.OnMessage(posMsg("FIBER_STATEXY", 1_000_000, 0, 0))

	if _,ok := h.LocateAt(1_000_000); ok {
		t.Errorf("LocateAt before init event should be unavailable")
	}

	// And samples queried before the origin exists are simply unlocated.
	if err := h.Configure(ctdConfig(0)); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	h.OnMessage(ctdMsg(1_000_000, 3.5))
	got,_ := h.Query(ctdConfig(0).Key(), scalardata.FullWindow())
	if len(got) != 1 || got[0].Located {
		t.Errorf("pre-origin sample should be stored but unlocated: %v", got)
	}

	h.OnMessage(initMsg(36.7, -122.1))
	got,_ = h.Query(ctdConfig(0).Key(), scalardata.FullWindow())
	if len(got) != 1 || !got[0].Located {
		t.Errorf("post-origin sample should be located: %v", got)
	}
}

func TestMalformedInitRetainsOrigin(t *testing.T) {
	h := newTestHub()

	h.OnMessage(initMsg(36.7, -122.1))
	before := h.Origin()
	if before == nil {
		t.Fatalf("origin not set")
	}

	h.OnMessage(initMsg(999, 0)) // out of range
	if after := h.Origin(); after != before {
		t.Errorf("malformed init replaced the origin")
	}

	// A valid repeat replaces wholesale.
	h.OnMessage(initMsg(-77.5, 166.6))
	if after := h.Origin(); after == before || after.Lat0 != -77.5 {
		t.Errorf("valid re-init did not replace the origin: %v", after)
	}
}

func TestQueryMovingWindow(t *testing.T) {
	h := newTestHub()
	if err := h.Configure(ctdConfig(0)); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	for i := int64(0); i <= 100; i++ {
		h.OnMessage(ctdMsg(i*1_000_000, float64(i)))
	}

	got,err := h.Query(ctdConfig(0).Key(), scalardata.TextWindow("30"))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	// Trailing 30s anchored at the newest sample (utime 100s): [70s, 100s]
	if len(got) != 31 {
		t.Fatalf("moving window: got %d samples, wanted 31", len(got))
	}
	if got[0].Utime != 70_000_000 || got[len(got)-1].Utime != 100_000_000 {
		t.Errorf("moving window edges: [%d, %d]", got[0].Utime, got[len(got)-1].Utime)
	}
}

func TestQueryInterpolatesExactBlend(t *testing.T) {
	h := newTestHub()
	if err := h.Configure(ctdConfig(0)); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	h.OnMessage(initMsg(0, 0))
	h.OnMessage(posMsg("FIBER_STATEXY", 0, 0, 0))
	h.OnMessage(posMsg("FIBER_STATEXY", 4_000_000, 100, 200))

	h.OnMessage(ctdMsg(1_000_000, 3.5)) // a quarter of the way along

	got,_ := h.Query(ctdConfig(0).Key(), scalardata.FullWindow())
	if len(got) != 1 || !got[0].Located {
		t.Fatalf("sample missing or unlocated: %v", got)
	}

	o := h.Origin()
	want := o.ToGeographic(25, 50)
	if got[0].Lat != want.Lat || got[0].Long != want.Long {
		t.Errorf("blend: got %v, wanted %v", got[0].Latlong, want)
	}
}

func TestActiveTrackPrefersFreshest(t *testing.T) {
	h := newTestHub()
	h.OnMessage(initMsg(0, 0))

	h.OnMessage(posMsg("FIBER_STATEXY", 1_000_000, 0, 0))
	h.OnMessage(posMsg("ACOMM_STATEXY", 5_000_000, 1000, 1000))

	// The acoustic track has the freshest fix; a locate at its end must
	// land on (1000,1000), not clamp to the stale fiber position.
	ll,ok := h.LocateAt(5_000_000)
	if !ok {
		t.Fatalf("LocateAt unavailable")
	}
	want := h.Origin().ToGeographic(1000, 1000)
	if ll.Lat != want.Lat || ll.Long != want.Long {
		t.Errorf("active track selection: got %v, wanted %v", ll, want)
	}
}

func TestRemoveAndClear(t *testing.T) {
	h := newTestHub()
	key := ctdConfig(0).Key()
	if err := h.Configure(ctdConfig(0)); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	h.OnMessage(ctdMsg(1_000_000, 3.5))

	if !h.Clear(key) {
		t.Errorf("Clear on existing key returned false")
	}
	got,err := h.Query(key, scalardata.FullWindow())
	if err != nil || len(got) != 0 {
		t.Errorf("after Clear: %d samples, err=%v", len(got), err)
	}

	if !h.Remove(key) {
		t.Errorf("Remove on existing key returned false")
	}
	if _,err := h.Query(key, scalardata.FullWindow()); err == nil {
		t.Errorf("Query after Remove should fail")
	}
	if h.Remove(key) {
		t.Errorf("second Remove returned true")
	}
}

func TestStatsDuringIngestion(t *testing.T) {
	h := newTestHub()

	done := make(chan struct{})
	go func() {
		for i := int64(0); i < 2000; i++ {
			h.OnMessage(posMsg("FIBER_STATEXY", i*1000, float64(i), float64(i)))
		}
		close(done)
	}()

	// Stats formats the map-backed perf counters that OnMessage updates;
	// reading it mid-ingestion must be safe.
	for {
		select {
		case <-done:
			if s := h.Stats(); s == "" {
				t.Errorf("Stats returned nothing")
			}
			return
		default:
			_ = h.Stats()
		}
	}
}

func TestSubscriptionsStableOrder(t *testing.T) {
	h := newTestHub()
	cfgs := []scalardata.FieldConfig{
		{Channel: "SCI_O2", MsgType: "comms.o2_t", Field: "concentration", SampleHz: 1, LayerName: "O2"},
		{Channel: "SCI_CTD", MsgType: "comms.ctd_t", Field: "temperature", SampleHz: 1, LayerName: "T"},
		{Channel: "SCI_CTD", MsgType: "comms.ctd_t", Field: "salinity", SampleHz: 1, LayerName: "S"},
	}
	for _,cfg := range cfgs {
		if err := h.Configure(cfg); err != nil {
			t.Fatalf("Configure: %v", err)
		}
	}

	subs := h.Subscriptions()
	if len(subs) != 3 {
		t.Fatalf("got %d subscriptions", len(subs))
	}
	for i := 1; i < len(subs); i++ {
		if subs[i-1].Key().String() > subs[i].Key().String() {
			t.Errorf("subscriptions not sorted: %s > %s", subs[i-1].Key(), subs[i].Key())
		}
	}
}
