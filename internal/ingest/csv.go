// Package ingest turns spreadsheet exports into raw measurement rows.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/locscore/core/algo"
	"github.com/huangsam/locscore/schema"
	"go.uber.org/zap"
)

// header maps trimmed column names to their index.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	cols, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("sheet is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	h := make(header, len(cols))
	for i, c := range cols {
		if i == 0 {
			c = strings.TrimPrefix(c, "\ufeff")
		}
		name := strings.TrimSpace(c)
		if _, seen := h[name]; !seen {
			h[name] = i
		}
	}
	return h, nil
}

// cell returns the trimmed value of a named column, if the row has it.
func (h header) cell(row []string, column string) (string, bool) {
	i, ok := h[column]
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// ParseMeasurements reads one RawMeasurement per data row. Empty metric cells
// are left out of the row; everything else is kept as raw text.
func ParseMeasurements(r io.Reader, s *schema.Schema) ([]schema.RawMeasurement, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	for _, required := range []string{s.LocationColumn, s.DateColumn} {
		if _, ok := h[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var rows []schema.RawMeasurement
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		location, _ := h.cell(record, s.LocationColumn)
		if location == "" {
			zap.L().Warn("row without location skipped", zap.Int("line", line))
			continue
		}
		date, _ := h.cell(record, s.DateColumn)

		values := make(map[string]map[string]string, len(s.Categories))
		for _, c := range s.Categories {
			metrics := make(map[string]string, len(c.Metrics))
			for _, m := range c.Metrics {
				if v, ok := h.cell(record, m.Column); ok && v != "" {
					metrics[m.Key] = v
				}
			}
			values[c.Key] = metrics
		}
		rows = append(rows, schema.RawMeasurement{Location: location, Date: date, Values: values})
	}
	return rows, nil
}

// ParseBenchmarks reads the first data row of a benchmark sheet. A cell that
// parses to a finite positive number replaces the schema target; anything
// else keeps the default. The bool is false when the sheet has no data row.
func ParseBenchmarks(r io.Reader, s *schema.Schema) (schema.BenchmarkTable, bool, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, false, err
	}

	record, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read benchmark row: %w", err)
	}

	table := schema.DefaultBenchmarks(s)
	for _, c := range s.Categories {
		for _, m := range c.Metrics {
			cell, ok := h.cell(record, m.Column)
			if !ok {
				continue
			}
			if v, ok := algo.ParseRaw(cell); ok && v > 0 {
				table.Set(c.Key, m.Key, v)
			}
		}
	}
	return table, true, nil
}
