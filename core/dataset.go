package core

import (
	"sync/atomic"
	"time"

	"github.com/huangsam/locscore/schema"
	"github.com/oklog/ulid/v2"
)

// Dataset is one immutable generation of scored data. Consumers hold the
// pointer they were handed; a reload publishes a new Dataset instead of
// mutating this one.
type Dataset struct {
	Generation     string
	Sequence       uint64
	BuiltAt        time.Time
	Source         schema.DataSource
	Degraded       bool
	DegradedReason string
	Schema         *schema.Schema
	Benchmarks     schema.BenchmarkTable
	Thresholds     schema.TierThresholds
	Index          schema.MonthlyIndex
	Trends         map[string]schema.Trend         // location -> trend into the latest month
	Histories      map[string][]schema.HistoryPoint // location -> score history
}

// NewDataset creates a dataset with a fresh generation ID.
func NewDataset(seq uint64, source schema.DataSource, sc *Scorer, idx schema.MonthlyIndex) *Dataset {
	return &Dataset{
		Generation: ulid.Make().String(),
		Sequence:   seq,
		BuiltAt:    time.Now(),
		Source:     source,
		Schema:     sc.schema,
		Benchmarks: sc.benchmarks,
		Thresholds: sc.thresholds,
		Index:      idx,
		Trends:     map[string]schema.Trend{},
		Histories:  map[string][]schema.HistoryPoint{},
	}
}

// Info returns the descriptive part of the dataset.
func (d *Dataset) Info() schema.DatasetInfo {
	return schema.DatasetInfo{
		Generation:     d.Generation,
		BuiltAt:        d.BuiltAt,
		Source:         d.Source,
		Degraded:       d.Degraded,
		DegradedReason: d.DegradedReason,
		Months:         d.Index.Months(),
		Locations:      len(d.Index.Locations()),
	}
}

// Trend returns the trend of a location, or a stable trend when none was computed.
func (d *Dataset) Trend(location string) schema.Trend {
	if t, ok := d.Trends[location]; ok {
		return t
	}
	return schema.Trend{Direction: schema.TrendStable}
}

// History returns the score history of a location.
func (d *Dataset) History(location string) []schema.HistoryPoint {
	if h, ok := d.Histories[location]; ok {
		return h
	}
	return []schema.HistoryPoint{}
}

// DatasetHolder publishes datasets with last-build-wins semantics.
// A build reserves a sequence number when it starts; a finished build is
// installed only when no build that started later has been installed already.
type DatasetHolder struct {
	seq     atomic.Uint64
	current atomic.Pointer[Dataset]
}

// NewDatasetHolder creates an empty holder.
func NewDatasetHolder() *DatasetHolder {
	return &DatasetHolder{}
}

// Reserve returns the sequence number for a build that is about to start.
func (h *DatasetHolder) Reserve() uint64 {
	return h.seq.Add(1)
}

// Publish installs d if it is newer than the current dataset and reports
// whether it did.
func (h *DatasetHolder) Publish(d *Dataset) bool {
	for {
		cur := h.current.Load()
		if cur != nil && cur.Sequence >= d.Sequence {
			return false
		}
		if h.current.CompareAndSwap(cur, d) {
			return true
		}
	}
}

// Current returns the latest published dataset, or nil before the first load.
func (h *DatasetHolder) Current() *Dataset {
	return h.current.Load()
}
