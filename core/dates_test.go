package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		year  int
		month time.Month
		day   int
	}{
		{"2024-03-05", 2024, time.March, 5},
		{"2024/3/5", 2024, time.March, 5},
		{"2024/03/05", 2024, time.March, 5},
		{"3/5/2024", 2024, time.March, 5},
		{"03/05/2024", 2024, time.March, 5},
		{" 2024-12-31 ", 2024, time.December, 31},
		{"2024-03-05 14:30:00", 2024, time.March, 5},
		{"Mar 5, 2024", 2024, time.March, 5},
		{"5 March 2024", 2024, time.March, 5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.year, got.Year())
			assert.Equal(t, tt.month, got.Month())
			assert.Equal(t, tt.day, got.Day())
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDateErrors(t *testing.T) {
	for _, input := range []string{"", "   ", "yesterday", "2024-13-01", "13/45/2024"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDate(input, nil)
			assert.Error(t, err)
		})
	}
}

func TestParseDateOffsetMovesIntoLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	got, err := ParseDate("2024-04-01T02:00:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", MonthKey(got))
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2024-01", MonthKey(time.Date(2024, 1, 31, 23, 0, 0, 0, time.Local)))
	assert.Equal(t, "0999-09", MonthKey(time.Date(999, 9, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPreviousMonth(t *testing.T) {
	tests := map[string]string{
		"2024-03": "2024-02",
		"2024-01": "2023-12",
		"2025-12": "2025-11",
	}
	for in, want := range tests {
		got, err := PreviousMonth(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := PreviousMonth("March")
	assert.Error(t, err)
}

// FuzzParseDate checks that accepted dates always produce a valid month key.
func FuzzParseDate(f *testing.F) {
	for _, seed := range []string{"2024-03-05", "3/5/2024", "2024/3/5", "Jan 2, 2006", "", "2024-02-30"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		got, err := ParseDate(s, time.UTC)
		if err != nil {
			return
		}
		key := MonthKey(got)
		if len(key) < 7 || key[len(key)-3] != '-' {
			t.Fatalf("bad month key %q for %q", key, s)
		}
	})
}
