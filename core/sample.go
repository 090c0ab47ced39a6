package core

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/huangsam/locscore/core/algo"
	"github.com/huangsam/locscore/schema"
)

// SampleGenerator produces synthetic rows around each metric target.
type SampleGenerator struct {
	Schema  *schema.Schema
	Clinics []string
	Months  int
	Rng     *rand.Rand
	Now     func() time.Time
}

// NewSampleGenerator creates a generator. A zero seed seeds from the clock.
func NewSampleGenerator(s *schema.Schema, clinics []string, months int, seed int64) *SampleGenerator {
	if len(clinics) == 0 {
		clinics = schema.SampleClinics
	}
	if months < 1 {
		months = 1
	}
	return &SampleGenerator{
		Schema:  s,
		Clinics: clinics,
		Months:  months,
		Rng:     NewRand(seed),
		Now:     time.Now,
	}
}

// NewRand returns a PCG-backed generator; seed 0 means time-seeded.
func NewRand(seed int64) *rand.Rand {
	s := uint64(seed)
	if seed == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Generate returns one row per clinic per month, dated the 15th in local time,
// for the configured number of months ending with the current month.
func (g *SampleGenerator) Generate() []schema.RawMeasurement {
	now := g.Now()
	rows := make([]schema.RawMeasurement, 0, len(g.Clinics)*g.Months)
	for i := g.Months - 1; i >= 0; i-- {
		date := time.Date(now.Year(), now.Month()-time.Month(i), 15, 0, 0, 0, 0, time.Local)
		for _, clinic := range g.Clinics {
			rows = append(rows, schema.RawMeasurement{
				Location: clinic,
				Date:     date.Format("2006-01-02"),
				Values:   g.values(),
			})
		}
	}
	return rows
}

// values draws one raw value per metric.
func (g *SampleGenerator) values() map[string]map[string]string {
	out := make(map[string]map[string]string, len(g.Schema.Categories))
	for _, c := range g.Schema.Categories {
		metrics := make(map[string]string, len(c.Metrics))
		for _, m := range c.Metrics {
			metrics[m.Key] = strconv.Itoa(g.draw(m.Target))
		}
		out[c.Key] = metrics
	}
	return out
}

// draw picks target±15, with a 10% chance of a 20 point drop and an
// independent 10% chance of a 15 point boost, bounded to 0-100.
func (g *SampleGenerator) draw(target float64) int {
	v := algo.Clamp(target+g.Rng.Float64()*30-15, 0, 100)
	if g.Rng.Float64() < 0.1 {
		v = max(0, v-20)
	}
	if g.Rng.Float64() < 0.1 {
		v = min(100, v+15)
	}
	return algo.RoundHalfUp(v)
}
