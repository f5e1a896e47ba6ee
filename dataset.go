package plantchart

import (
	"sort"
	"time"
)

// TimeRange is a window of time. Contains treats Start as exclusive and End
// as inclusive, so a day runs from just after its midnight through the
// following midnight.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether Start < t <= End
func (tr TimeRange) Contains(t time.Time) bool {
	return t.After(tr.Start) && !t.After(tr.End)
}

func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

func (tr TimeRange) Center() time.Time {
	return tr.Start.Add(tr.Duration() / 2)
}

// Dataset holds the sorted records of one load. It is replaced as a whole
// and never modified in place.
type Dataset struct {
	records []Record
}

// NewDataset sorts a copy of the records
func NewDataset(records []Record) *Dataset {
	cp := make([]Record, len(records))
	copy(cp, records)
	sortRecords(cp)
	return &Dataset{records: cp}
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

func (d *Dataset) Empty() bool {
	return d.Len() == 0
}

// Records returns the backing slice; callers must not modify it
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	return d.records
}

func (d *Dataset) First() time.Time {
	if d.Empty() {
		return time.Time{}
	}
	return d.records[0].Time
}

func (d *Dataset) Last() time.Time {
	if d.Empty() {
		return time.Time{}
	}
	return d.records[len(d.records)-1].Time
}

// Span is the range from the first to the last record
func (d *Dataset) Span() TimeRange {
	return TimeRange{Start: d.First(), End: d.Last()}
}

// Slice returns the records where rng.Start < t <= rng.End
func (d *Dataset) Slice(rng TimeRange) []Record {
	if d.Empty() {
		return nil
	}
	lo := sort.Search(len(d.records), func(i int) bool {
		return d.records[i].Time.After(rng.Start)
	})
	hi := sort.Search(len(d.records), func(i int) bool {
		return d.records[i].Time.After(rng.End)
	})
	if lo >= hi {
		return nil
	}
	return d.records[lo:hi]
}
