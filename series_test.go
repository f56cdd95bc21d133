package scalardata

import (
	"testing"
)

func TestSeriesDecimation(t *testing.T) {
	s := ScalarSeries{}
	period := int64(500_000) // 2Hz

	// (utime, expect-accepted)
	testcases := []struct {
		U      int64
		Accept bool
	}{
		{1_000_000, true},  // first sample always accepted
		{1_100_000, false}, // too soon
		{1_499_999, false}, // one usec short
		{1_500_000, true},  // exactly one period later
		{1_400_000, false}, // late-arriving older sample: same rule rejects it
		{9_000_000, true},  // big gap is fine
		{9_100_000, false},
	}

	for i,tc := range testcases {
		got := s.Accept(ScalarSample{tc.U, float64(i)}, period)
		if got != tc.Accept {
			t.Errorf("[%d] Accept(%d): got %v, wanted %v", i, tc.U, got, tc.Accept)
		}
	}

	all := s.All()
	if len(all) != 3 {
		t.Fatalf("stored %d samples, wanted 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Utime-all[i-1].Utime < period {
			t.Errorf("samples %d,%d closer than decimation period", i-1, i)
		}
	}
}

func TestSeriesQueryAll(t *testing.T) {
	s := ScalarSeries{}
	for i := int64(0); i < 10; i++ {
		s.Accept(ScalarSample{i * 1_000_000, float64(i)}, 0)
	}

	all := s.Query(FullExtent())
	if len(all) != 10 {
		t.Fatalf("Query(full): got %d samples, wanted 10", len(all))
	}
	for i,sample := range all {
		if sample.Value != float64(i) {
			t.Errorf("Query(full)[%d]: not in append order: %v", i, sample)
		}
	}
}

func TestSeriesQueryRange(t *testing.T) {
	s := ScalarSeries{}
	for i := int64(0); i < 10; i++ {
		s.Accept(ScalarSample{i * 1_000_000, float64(i)}, 0)
	}

	testcases := []struct {
		Iv   Interval
		Want []int64 // expected utimes, in units of seconds
	}{
		{Interval{2_000_000, 5_000_000}, []int64{2, 3, 4}}, // end is exclusive
		{Interval{2_500_000, 5_000_000}, []int64{3, 4}},
		{Interval{0, 1}, []int64{0}},
		{Interval{9_000_000, 100_000_000}, []int64{9}},
		{Interval{50_000_000, 60_000_000}, []int64{}}, // entirely after the data
		{Interval{-10, -5}, []int64{}},                // entirely before
	}

	for i,tc := range testcases {
		got := s.Query(tc.Iv)
		if len(got) != len(tc.Want) {
			t.Errorf("[%d] Query(%v): got %d samples, wanted %d", i, tc.Iv, len(got), len(tc.Want))
			continue
		}
		for j,sample := range got {
			if sample.Utime != tc.Want[j]*1_000_000 {
				t.Errorf("[%d] Query(%v)[%d]: got utime %d", i, tc.Iv, j, sample.Utime)
			}
		}
	}
}

func TestSeriesBoundsAndClear(t *testing.T) {
	s := ScalarSeries{}

	if _,_,ok := s.Bounds(); ok {
		t.Errorf("empty series claims bounds")
	}

	s.Accept(ScalarSample{3_000_000, 1}, 0)
	s.Accept(ScalarSample{8_000_000, 2}, 0)

	min,max,ok := s.Bounds()
	if !ok || min != 3_000_000 || max != 8_000_000 {
		t.Errorf("Bounds: got (%d,%d,%v)", min, max, ok)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Clear left %d samples", s.Len())
	}
	// The decimation cursor resets too: an old sample is acceptable again.
	if !s.Accept(ScalarSample{1_000_000, 9}, 500_000) {
		t.Errorf("post-Clear accept rejected")
	}
}
