package scalardata

import (
	"fmt"
	"sort"
)

// ScalarSample is one decimated data point for a configured field.
type ScalarSample struct {
	Utime int64
	Value float64
}

func (s ScalarSample)String() string {
	return fmt.Sprintf("[%s] %g", UtimeToTime(s.Utime).Format("15:04:05.000000"), s.Value)
}

// ScalarSeries owns the stored samples for one configured field. All appends
// go through Accept, which enforces the per-series sample-rate cap; the
// decimation cursor doubles as an ordering guarantee, since a sample is only
// kept when it is at least a full period newer than the last one kept.
type ScalarSeries struct {
	samples      []ScalarSample
	lastAccepted int64
	any          bool
}

// Accept applies decimation and appends on success. periodUsec is the
// minimum utime spacing between kept samples; comparisons are against the
// message timeline, not arrival time, so a late-arriving older sample is
// rejected by the same rule even if nothing near it was ever kept.
func (s *ScalarSeries)Accept(sample ScalarSample, periodUsec int64) bool {
	if s.any && sample.Utime-s.lastAccepted < periodUsec {
		return false
	}
	s.any = true
	s.lastAccepted = sample.Utime
	s.samples = append(s.samples, sample)
	return true
}

func (s *ScalarSeries)Len() int { return len(s.samples) }

// Bounds returns the utime extent of the stored samples; ok is false for an
// empty series.
func (s *ScalarSeries)Bounds() (min, max int64, ok bool) {
	if len(s.samples) == 0 {
		return 0, 0, false
	}
	return s.samples[0].Utime, s.samples[len(s.samples)-1].Utime, true
}

// Query returns a copy of the contiguous run of samples with utime in
// [iv.Start, iv.End). Binary search on the ordering invariant; the copy
// means callers can hold the result across later appends.
func (s *ScalarSeries)Query(iv Interval) []ScalarSample {
	lo := sort.Search(len(s.samples), func(i int) bool { return s.samples[i].Utime >= iv.Start })
	hi := sort.Search(len(s.samples), func(i int) bool { return s.samples[i].Utime >= iv.End })

	out := make([]ScalarSample, hi-lo)
	copy(out, s.samples[lo:hi])
	return out
}

// All returns a copy of every stored sample, in append order.
func (s *ScalarSeries)All() []ScalarSample { return s.Query(FullExtent()) }

// Clear empties the buffer and resets the decimation cursor; the series
// itself (and its configuration, which lives with the owner) survives.
func (s *ScalarSeries)Clear() {
	s.samples = nil
	s.lastAccepted = 0
	s.any = false
}
