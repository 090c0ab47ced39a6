package contract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/huangsam/locscore/schema"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// weightTolerance is the allowed deviation of a weight sum from 1.0.
const weightTolerance = 0.001

// metricRaw is the YAML shape of one metric. Optional fields are pointers so that
// absence can be told apart from a zero value.
type metricRaw struct {
	Key            string   `yaml:"key"`
	Name           string   `yaml:"name"`
	Unit           string   `yaml:"unit"`
	Description    string   `yaml:"description"`
	Column         string   `yaml:"column"`
	Weight         *float64 `yaml:"weight"`
	HigherIsBetter *bool    `yaml:"higher_is_better"`
	Target         *float64 `yaml:"target"`
}

// categoryRaw is the YAML shape of one category.
type categoryRaw struct {
	Key         string      `yaml:"key"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Weight      *float64    `yaml:"weight"`
	Metrics     []metricRaw `yaml:"metrics"`
}

// schemaRaw is the YAML shape of a scoring schema file.
type schemaRaw struct {
	LocationColumn string        `yaml:"location_column"`
	DateColumn     string        `yaml:"date_column"`
	Categories     []categoryRaw `yaml:"categories"`
}

// LoadScoringSchema reads a YAML scoring schema from disk.
func LoadScoringSchema(path string, strict bool) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	s, err := DecodeScoringSchema(bytes.NewReader(data), strict)
	if err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}
	return s, nil
}

// DecodeScoringSchema decodes and validates a YAML scoring schema.
//
// Unknown fields are rejected. A metric without higher_is_better is an error in
// strict mode; otherwise it defaults to true with a warning. Weight sums that
// drift from 1.0 are errors in strict mode and warnings otherwise. A missing or
// non-positive target is always an error.
func DecodeScoringSchema(r io.Reader, strict bool) (*schema.Schema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw schemaRaw
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("schema is empty")
		}
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if len(raw.Categories) == 0 {
		return nil, errors.New("schema must define at least one category")
	}

	s := &schema.Schema{
		LocationColumn: raw.LocationColumn,
		DateColumn:     raw.DateColumn,
	}
	if s.LocationColumn == "" {
		s.LocationColumn = schema.DefaultLocationColumn
	}
	if s.DateColumn == "" {
		s.DateColumn = schema.DefaultDateColumn
	}

	seenCategories := make(map[string]struct{}, len(raw.Categories))
	for _, rc := range raw.Categories {
		if rc.Key == "" {
			return nil, errors.New("category key is required")
		}
		if _, dup := seenCategories[rc.Key]; dup {
			return nil, fmt.Errorf("duplicate category %q", rc.Key)
		}
		seenCategories[rc.Key] = struct{}{}

		if rc.Weight == nil {
			return nil, fmt.Errorf("category %s: weight is required", rc.Key)
		}
		if len(rc.Metrics) == 0 {
			return nil, fmt.Errorf("category %s: at least one metric is required", rc.Key)
		}

		cat := schema.CategoryDefinition{
			Key:         rc.Key,
			Name:        orDefault(rc.Name, rc.Key),
			Description: rc.Description,
			Weight:      *rc.Weight,
		}

		seenMetrics := make(map[string]struct{}, len(rc.Metrics))
		for _, rm := range rc.Metrics {
			m, err := buildMetric(rc.Key, rm, strict)
			if err != nil {
				return nil, err
			}
			if _, dup := seenMetrics[m.Key]; dup {
				return nil, fmt.Errorf("category %s: duplicate metric %q", rc.Key, m.Key)
			}
			seenMetrics[m.Key] = struct{}{}
			cat.Metrics = append(cat.Metrics, m)
		}
		s.Categories = append(s.Categories, cat)
	}

	if err := ValidateSchemaWeights(s, strict); err != nil {
		return nil, err
	}
	return s, nil
}

// buildMetric converts one raw metric into its definition.
func buildMetric(category string, rm metricRaw, strict bool) (schema.MetricDefinition, error) {
	if rm.Key == "" {
		return schema.MetricDefinition{}, fmt.Errorf("category %s: metric key is required", category)
	}
	if rm.Weight == nil {
		return schema.MetricDefinition{}, fmt.Errorf("metric %s.%s: weight is required", category, rm.Key)
	}
	if rm.Target == nil {
		return schema.MetricDefinition{}, fmt.Errorf("metric %s.%s: target is required", category, rm.Key)
	}
	if math.IsNaN(*rm.Target) || math.IsInf(*rm.Target, 0) || *rm.Target <= 0 {
		return schema.MetricDefinition{}, fmt.Errorf("metric %s.%s: target must be a finite number > 0, got %v", category, rm.Key, *rm.Target)
	}

	higher := true
	if rm.HigherIsBetter == nil {
		if strict {
			return schema.MetricDefinition{}, fmt.Errorf("metric %s.%s: higher_is_better must be set explicitly", category, rm.Key)
		}
		zap.L().Warn("higher_is_better missing, defaulting to true",
			zap.String("category", category), zap.String("metric", rm.Key))
	} else {
		higher = *rm.HigherIsBetter
	}

	return schema.MetricDefinition{
		Key:            rm.Key,
		Name:           orDefault(rm.Name, rm.Key),
		Unit:           rm.Unit,
		Description:    rm.Description,
		Column:         orDefault(rm.Column, rm.Key),
		Weight:         *rm.Weight,
		HigherIsBetter: higher,
		Target:         *rm.Target,
	}, nil
}

// ValidateSchemaWeights checks that every weight lies in [0,1] and that category
// weights, and metric weights within each category, sum to 1.0.
// Out-of-range weights are always errors. Sum drift is an error only in strict mode.
func ValidateSchemaWeights(s *schema.Schema, strict bool) error {
	categorySum := 0.0
	for _, c := range s.Categories {
		if c.Weight < 0 || c.Weight > 1 {
			return fmt.Errorf("category %s: weight must be between 0 and 1, got %.3f", c.Key, c.Weight)
		}
		categorySum += c.Weight

		metricSum := 0.0
		for _, m := range c.Metrics {
			if m.Weight < 0 || m.Weight > 1 {
				return fmt.Errorf("metric %s.%s: weight must be between 0 and 1, got %.3f", c.Key, m.Key, m.Weight)
			}
			metricSum += m.Weight
		}
		if err := checkWeightSum(fmt.Sprintf("metric weights for category %s", c.Key), metricSum, strict); err != nil {
			return err
		}
	}
	return checkWeightSum("category weights", categorySum, strict)
}

func checkWeightSum(what string, sum float64, strict bool) error {
	if math.Abs(sum-1.0) <= weightTolerance {
		return nil
	}
	if strict {
		return fmt.Errorf("%s must sum to 1.0, got %.3f", what, sum)
	}
	zap.L().Warn("weights do not sum to 1.0", zap.String("scope", what), zap.Float64("sum", sum))
	return nil
}

// ApplyCategoryWeights overrides category weights from the config file.
// Every key must name a schema category; like custom weights for a scoring mode,
// the resulting category weights must sum to 1.0.
func ApplyCategoryWeights(s *schema.Schema, overrides map[string]*float64) error {
	if len(overrides) == 0 {
		return nil
	}
	for key, w := range overrides {
		if w == nil {
			continue
		}
		c, ok := s.Category(key)
		if !ok {
			return fmt.Errorf("unknown category %q in weights", key)
		}
		if *w < 0 || *w > 1 {
			return fmt.Errorf("custom weight for category %s must be between 0 and 1, got %.3f", key, *w)
		}
		c.Weight = *w
	}
	sum := 0.0
	for _, c := range s.Categories {
		sum += c.Weight
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("custom category weights must sum to 1.0, got %.3f", sum)
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
