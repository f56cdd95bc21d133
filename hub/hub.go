// Package hub wires the streaming side of the system together. It owns the
// per-source position tracks, the per-field scalar series, and the origin,
// routes every incoming message to the right buffer, and answers the
// queries the view layer needs on each refresh.
//
// Concurrency model: one transport goroutine appends (OnMessage), any number
// of readers query. All mutation happens inside short critical sections;
// readers snapshot slice headers under the lock and then work on the
// immutable prefix, so a query never observes a torn sample or races an
// append into disorder. Remove and Clear take the same lock, so they land
// atomically before or after any in-flight append, never mid-sample.
package hub

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/skypies/util/histogram"

	scalardata "github.com/lauralindzey/nui-scalar-data"
)

const DefaultInitChannel = "DIVE_INI"

// The default deployment has exactly two position feeds; the design allows
// any set, keyed by channel name.
var DefaultPositionChannels = []string{"FIBER_STATEXY", "ACOMM_STATEXY"}

type entry struct {
	cfg    scalardata.FieldConfig
	series *scalardata.ScalarSeries
}

type Hub struct {
	mu sync.Mutex

	origin *scalardata.Origin
	tracks map[string]*scalardata.PositionTrack
	series map[scalardata.FieldKey]*entry
	window scalardata.TimeWindow

	posChannels map[string]bool
	initChannel string

	startTime time.Time
	stats     histogram.Set
	logger    *log.Logger
	verbosity int
}

type Options struct {
	PositionChannels []string // defaults to DefaultPositionChannels
	InitChannel      string   // defaults to DefaultInitChannel
	Logger           *log.Logger
	Verbosity        int
}

func New(opt Options) *Hub {
	if len(opt.PositionChannels) == 0 {
		opt.PositionChannels = DefaultPositionChannels
	}
	if opt.InitChannel == "" {
		opt.InitChannel = DefaultInitChannel
	}
	if opt.Logger == nil {
		opt.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	h := Hub{
		tracks:      map[string]*scalardata.PositionTrack{},
		series:      map[scalardata.FieldKey]*entry{},
		posChannels: map[string]bool{},
		initChannel: opt.InitChannel,
		startTime:   time.Now(),
		stats:       histogram.NewSet(40000), // maxval, in micros; 40ms == 40000us
		logger:      opt.Logger,
		verbosity:   opt.Verbosity,
	}
	for _,ch := range opt.PositionChannels {
		h.posChannels[ch] = true
		tr := scalardata.PositionTrack{}
		h.tracks[ch] = &tr
	}
	return &h
}

func (h *Hub)Debugf(format string, args ...interface{}) {
	if h.verbosity > 0 {
		h.logger.Printf("D "+format, args...)
	}
}
func (h *Hub)Infof(format string, args ...interface{}) {
	h.logger.Printf("I "+format, args...)
}
func (h *Hub)Errorf(format string, args ...interface{}) {
	h.logger.Printf("E "+format, args...)
}

// Configure registers (or re-registers) a monitored field. A genuinely new
// key starts with an empty buffer and a fresh decimation cursor; configuring
// an identical key again keeps both, so samples already ingested are never
// duplicated or thrown away by a redundant configure.
func (h *Hub)Configure(cfg scalardata.FieldConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("Configure: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	key := cfg.Key()
	if e,exists := h.series[key]; exists {
		e.cfg = cfg // layer/rate settings only; buffer and cursor survive
		h.Debugf("Configure: replaced settings for %s", cfg)
		return nil
	}

	h.series[key] = &entry{cfg: cfg, series: &scalardata.ScalarSeries{}}
	h.Infof("Configure: added %s", cfg)
	return nil
}

// Remove destroys the series and its configuration. Dropping the backing map
// layer is the view layer's job; it learns about the removal from its own
// call into here.
func (h *Hub)Remove(key scalardata.FieldKey) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _,exists := h.series[key]; !exists {
		return false
	}
	delete(h.series, key)
	h.Infof("Remove: %s", key)
	return true
}

// Clear empties a series' samples but keeps its configuration.
func (h *Hub)Clear(key scalardata.FieldKey) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	e,exists := h.series[key]
	if !exists {
		return false
	}
	e.series.Clear()
	h.Infof("Clear: %s", key)
	return true
}

// SetWindow replaces the active time-range selection; most-recent-wins, so
// a drag wipes out a text spec and vice versa.
func (h *Hub)SetWindow(w scalardata.TimeWindow) {
	h.mu.Lock()
	h.window = w
	h.mu.Unlock()
}

func (h *Hub)CurrentWindow() scalardata.TimeWindow {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.window
}

func (h *Hub)Origin() *scalardata.Origin {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.origin
}

// Subscriptions snapshots the current configuration in a stable order, for
// persistence into the host project file.
func (h *Hub)Subscriptions() scalardata.Subscriptions {
	h.mu.Lock()
	defer h.mu.Unlock()

	keys := make([]scalardata.FieldKey, 0, len(h.series))
	for k := range h.series {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String() ||
			(keys[i].String() == keys[j].String() && keys[i].MsgType < keys[j].MsgType)
	})

	subs := make(scalardata.Subscriptions, 0, len(keys))
	for _,k := range keys {
		subs = append(subs, h.series[k].cfg)
	}
	return subs
}

// Keys lists the configured field keys, sorted.
func (h *Hub)Keys() []scalardata.FieldKey {
	subs := h.Subscriptions()
	keys := make([]scalardata.FieldKey, len(subs))
	for i,cfg := range subs {
		keys[i] = cfg.Key()
	}
	return keys
}

// Stats reports the internal dispatch-latency counters. The Set is
// map-backed and OnMessage writes it, so the formatting happens under
// the same lock.
func (h *Hub)Stats() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fmt.Sprintf("up %s\n%s", time.Since(h.startTime), h.stats)
}
