package contract

import (
	"strings"
	"testing"

	"github.com/huangsam/locscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const twoCategorySchema = `
location_column: Site
categories:
  - key: quality
    name: Quality
    weight: 0.6
    metrics:
      - key: satisfaction
        column: Satisfaction
        weight: 0.5
        higher_is_better: true
        target: 90
      - key: complaints
        column: Complaints
        weight: 0.5
        higher_is_better: false
        target: 5
  - key: volume
    weight: 0.4
    metrics:
      - key: visits
        weight: 1.0
        higher_is_better: true
        target: 400
`

func TestDecodeScoringSchema(t *testing.T) {
	s, err := DecodeScoringSchema(strings.NewReader(twoCategorySchema), true)
	require.NoError(t, err)

	assert.Equal(t, "Site", s.LocationColumn)
	assert.Equal(t, schema.DefaultDateColumn, s.DateColumn)
	require.Len(t, s.Categories, 2)

	quality := s.Categories[0]
	assert.Equal(t, "Quality", quality.Name)
	assert.InDelta(t, 0.6, quality.Weight, 1e-9)
	require.Len(t, quality.Metrics, 2)
	assert.False(t, quality.Metrics[1].HigherIsBetter)

	volume := s.Categories[1]
	assert.Equal(t, "volume", volume.Name, "name defaults to key")
	assert.Equal(t, "visits", volume.Metrics[0].Column, "column defaults to key")
}

func TestDecodeScoringSchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		strict bool
		errMsg string
	}{
		{
			name:   "empty document",
			doc:    "",
			errMsg: "schema is empty",
		},
		{
			name:   "unknown field",
			doc:    "categories: []\nbogus: 1\n",
			errMsg: "field bogus not found",
		},
		{
			name:   "no categories",
			doc:    "categories: []\n",
			errMsg: "at least one category",
		},
		{
			name: "missing target",
			doc: `categories:
  - key: a
    weight: 1
    metrics:
      - key: m
        weight: 1
        higher_is_better: true
`,
			errMsg: "target is required",
		},
		{
			name: "zero target",
			doc: `categories:
  - key: a
    weight: 1
    metrics:
      - key: m
        weight: 1
        higher_is_better: true
        target: 0
`,
			errMsg: "target must be a finite number > 0",
		},
		{
			name: "missing direction in strict mode",
			doc: `categories:
  - key: a
    weight: 1
    metrics:
      - key: m
        weight: 1
        target: 10
`,
			strict: true,
			errMsg: "higher_is_better must be set explicitly",
		},
		{
			name: "weights off in strict mode",
			doc: `categories:
  - key: a
    weight: 1
    metrics:
      - key: m
        weight: 0.5
        higher_is_better: true
        target: 10
`,
			strict: true,
			errMsg: "metric weights for category a must sum to 1.0, got 0.500",
		},
		{
			name: "weight out of range",
			doc: `categories:
  - key: a
    weight: 1.5
    metrics:
      - key: m
        weight: 1
        higher_is_better: true
        target: 10
`,
			errMsg: "weight must be between 0 and 1",
		},
		{
			name: "duplicate metric",
			doc: `categories:
  - key: a
    weight: 1
    metrics:
      - key: m
        weight: 0.5
        higher_is_better: true
        target: 10
      - key: m
        weight: 0.5
        higher_is_better: true
        target: 10
`,
			errMsg: "duplicate metric",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeScoringSchema(strings.NewReader(tt.doc), tt.strict)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDecodeScoringSchemaLenient(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	doc := `categories:
  - key: a
    weight: 1
    metrics:
      - key: m
        weight: 0.5
        target: 10
`
	s, err := DecodeScoringSchema(strings.NewReader(doc), false)
	require.NoError(t, err)
	assert.True(t, s.Categories[0].Metrics[0].HigherIsBetter)

	assert.Equal(t, 1, logs.FilterMessage("higher_is_better missing, defaulting to true").Len())
	assert.Equal(t, 1, logs.FilterMessage("weights do not sum to 1.0").Len())
}

func TestValidateSchemaWeightsDefault(t *testing.T) {
	assert.NoError(t, ValidateSchemaWeights(schema.DefaultSchema(), true))
}

func TestApplyCategoryWeights(t *testing.T) {
	s := schema.DefaultSchema()
	require.NoError(t, ApplyCategoryWeights(s, nil))

	err := ApplyCategoryWeights(s, map[string]*float64{"staffing": floatPtr(0.2)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom category weights must sum to 1.0, got 1.100")

	s = schema.DefaultSchema()
	err = ApplyCategoryWeights(s, map[string]*float64{"staffing": floatPtr(-0.1)})
	require.Error(t, err)
}
