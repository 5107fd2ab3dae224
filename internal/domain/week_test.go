package domain

import (
	"testing"
	"time"
)

func TestWeekOfMonth(t *testing.T) {
	tests := []struct {
		day      int
		expected int
	}{
		{day: 1, expected: 1},
		{day: 7, expected: 1},
		{day: 8, expected: 2},
		{day: 14, expected: 2},
		{day: 15, expected: 3},
		{day: 22, expected: 4},
		{day: 28, expected: 4},
		{day: 29, expected: 5},
		{day: 31, expected: 5},
	}

	for _, tt := range tests {
		if got := WeekOfMonth(tt.day); got != tt.expected {
			t.Errorf("WeekOfMonth(%d) = %d, want %d", tt.day, got, tt.expected)
		}
	}
}

func TestWeekKeyFor(t *testing.T) {
	key := WeekKeyFor(time.Date(2023, 7, 16, 0, 0, 0, 0, time.UTC))
	expected := WeekKey{Year: 2023, Month: 7, Week: 3}
	if key != expected {
		t.Errorf("expected %+v, got %+v", expected, key)
	}
	if key.Label() != "2023-07 W3" {
		t.Errorf("expected label 2023-07 W3, got %s", key.Label())
	}
	if got := FormatDate(key.StartDate()); got != "2023-07-15" {
		t.Errorf("expected bucket start 2023-07-15, got %s", got)
	}
}

func TestWeekKey_Less(t *testing.T) {
	tests := []struct {
		name string
		a, b WeekKey
		want bool
	}{
		{"earlier year", WeekKey{2022, 12, 5}, WeekKey{2023, 1, 1}, true},
		{"earlier month", WeekKey{2023, 6, 5}, WeekKey{2023, 7, 1}, true},
		{"earlier week", WeekKey{2023, 7, 1}, WeekKey{2023, 7, 2}, true},
		{"equal", WeekKey{2023, 7, 2}, WeekKey{2023, 7, 2}, false},
		{"later", WeekKey{2023, 7, 3}, WeekKey{2023, 7, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.want {
				t.Errorf("Less() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDateRange(t *testing.T) {
	ref := time.Date(2023, 2, 10, 13, 45, 0, 0, time.UTC)

	r, err := ParseDateRange("", "", ref)
	if err != nil {
		t.Fatalf("ParseDateRange failed: %v", err)
	}
	if r.StartString() != "2023-02-01" || r.EndString() != "2023-02-28" {
		t.Errorf("expected current month 2023-02-01..2023-02-28, got %s..%s", r.StartString(), r.EndString())
	}

	r, err = ParseDateRange("2023-07-01", "2023-07-31", ref)
	if err != nil {
		t.Fatalf("ParseDateRange failed: %v", err)
	}
	if r.CacheKey() != "2023-07-01|2023-07-31" {
		t.Errorf("unexpected cache key %s", r.CacheKey())
	}

	if _, err := ParseDateRange("07/01/2023", "", ref); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestParseDate_TruncatesTime(t *testing.T) {
	d, err := ParseDate("2023-07-01 10:11:12")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if FormatDate(d) != "2023-07-01" {
		t.Errorf("expected 2023-07-01, got %s", FormatDate(d))
	}
}

func TestParseDate_Suffixes(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2023-07-01", "2023-07-01", false},
		{"2023-07-01T10:11:12Z", "2023-07-01", false},
		{" 2023-07-01 ", "2023-07-01", false},
		{"2023-07-01garbage", "", true},
		{"2023-07-011", "", true},
		{"2023-07-01/", "", true},
	}

	for _, tt := range tests {
		d, err := ParseDate(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q) = %s, want error", tt.in, FormatDate(d))
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q) failed: %v", tt.in, err)
			continue
		}
		if got := FormatDate(d); got != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestPresetRange(t *testing.T) {
	ref := time.Date(2023, 3, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		preset    string
		wantStart string
		wantEnd   string
	}{
		{PresetThisMonth, "2023-03-01", "2023-03-31"},
		{PresetLastMonth, "2023-02-01", "2023-02-28"},
		{PresetLast30Days, "2023-02-14", "2023-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			r, ok := PresetRange(tt.preset, ref)
			if !ok {
				t.Fatalf("preset %s not recognised", tt.preset)
			}
			if r.StartString() != tt.wantStart || r.EndString() != tt.wantEnd {
				t.Errorf("got %s..%s, want %s..%s", r.StartString(), r.EndString(), tt.wantStart, tt.wantEnd)
			}
		})
	}

	if _, ok := PresetRange("forever", ref); ok {
		t.Error("unknown preset should not resolve")
	}
}
