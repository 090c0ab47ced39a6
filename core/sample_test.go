package core

import (
	"testing"
	"time"

	"github.com/huangsam/locscore/core/algo"
	"github.com/huangsam/locscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSample(months int, seed int64) *SampleGenerator {
	gen := NewSampleGenerator(schema.DefaultSchema(), nil, months, seed)
	gen.Now = func() time.Time { return time.Date(2024, 6, 3, 12, 0, 0, 0, time.Local) }
	return gen
}

func TestSampleGeneratorShape(t *testing.T) {
	rows := fixedSample(3, 11).Generate()
	require.Len(t, rows, 3*len(schema.SampleClinics))

	assert.Equal(t, "2024-04-15", rows[0].Date)
	assert.Equal(t, "2024-06-15", rows[len(rows)-1].Date)

	s := schema.DefaultSchema()
	for _, r := range rows {
		for _, c := range s.Categories {
			for _, m := range c.Metrics {
				raw, ok := r.Value(c.Key, m.Key)
				require.True(t, ok, "%s/%s", c.Key, m.Key)
				v, ok := algo.ParseRaw(raw)
				require.True(t, ok)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 100.0)
			}
		}
	}
}

func TestSampleGeneratorSeeded(t *testing.T) {
	assert.Equal(t, fixedSample(2, 99).Generate(), fixedSample(2, 99).Generate())
	assert.NotEqual(t, fixedSample(2, 99).Generate(), fixedSample(2, 100).Generate())
}

func TestSampleGeneratorDefaults(t *testing.T) {
	gen := NewSampleGenerator(schema.DefaultSchema(), nil, 0, 1)
	assert.Equal(t, 1, gen.Months)
	assert.Equal(t, schema.SampleClinics, gen.Clinics)

	gen = NewSampleGenerator(schema.DefaultSchema(), []string{"Only Clinic"}, 2, 1)
	gen.Now = func() time.Time { return time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local) }
	rows := gen.Generate()
	require.Len(t, rows, 2)
	assert.Equal(t, "2023-12-15", rows[0].Date)
	assert.Equal(t, "Only Clinic", rows[1].Location)
}

func TestSampleRowsScore(t *testing.T) {
	rows := fixedSample(3, 5).Generate()
	sc := NewScorer(schema.DefaultSchema(), nil, schema.DefaultTierThresholds())
	idx := sc.BuildIndex(rows)
	assert.Equal(t, []string{"2024-04", "2024-05", "2024-06"}, idx.Months())
	assert.Len(t, idx["2024-06"], len(schema.SampleClinics))
}
