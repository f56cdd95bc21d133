package archive

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/bigquery"

	scalardata "github.com/lauralindzey/nui-scalar-data"
)

// SampleForBigQuery is a denormalized scalar sample, joined against
// the position track so analysis queries don't have to interpolate.
type SampleForBigQuery struct {
	Session   string
	Channel   string
	MsgType   string
	Field     string
	LayerName string

	Time  time.Time
	Utime int64
	Value float64

	Lat, Long float64
	Located   bool
}

func (sbq SampleForBigQuery)String() string {
	return fmt.Sprintf("%s/%s %s=%.4f @%s", sbq.Channel, sbq.MsgType, sbq.Field,
		sbq.Value, sbq.Time.Format("15:04:05"))
}

// ForBigQuery flattens the session into one row per stored sample.
// Samples are georeferenced against the freshest track, where the
// session has an origin.
func (s *Session)ForBigQuery() []SampleForBigQuery {
	track := freshestTrack(s.Tracks)

	rows := []SampleForBigQuery{}
	for _,ss := range s.Series {
		for _,sample := range ss.Samples {
			row := SampleForBigQuery{
				Session: s.Name,
				Channel: ss.Config.Channel,
				MsgType: ss.Config.MsgType,
				Field: ss.Config.Field,
				LayerName: ss.Config.LayerName,
				Time: scalardata.UtimeToTime(sample.Utime),
				Utime: sample.Utime,
				Value: sample.Value,
			}
			if ll,ok := scalardata.Locate(track, s.Origin, sample.Utime); ok {
				row.Lat, row.Long, row.Located = ll.Lat, ll.Long, true
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// Ties on End() break by channel name, so re-running an export over the
// same session always yields the same rows.
func freshestTrack(tracks map[string]scalardata.PositionTrack) scalardata.PositionTrack {
	names := make([]string, 0, len(tracks))
	for name := range tracks {
		names = append(names, name)
	}
	sort.Strings(names)

	best := scalardata.PositionTrack{}
	for _,name := range names {
		t := tracks[name]
		if len(t) == 0 { continue }
		if len(best) == 0 || t.End() > best.End() {
			best = t
		}
	}
	return best
}

// Publish streams the session's rows into the bigquery table.
func Publish(ctx context.Context, project, dataset, table string, s *Session) (int, error) {
	client,err := bigquery.NewClient(ctx, project)
	if err != nil {
		return 0, fmt.Errorf("Creating bigquery client: %v", err)
	}
	defer client.Close()

	rows := s.ForBigQuery()
	if len(rows) == 0 {
		return 0, nil
	}

	inserter := client.Dataset(dataset).Table(table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return 0, fmt.Errorf("Submission of insert: %v", err)
	}

	return len(rows), nil
}
