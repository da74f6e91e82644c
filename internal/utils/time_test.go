package utils

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	in := time.Date(2026, 3, 14, 23, 59, 30, 5, loc)
	got := StartOfDay(in)
	want := time.Date(2026, 3, 14, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Errorf("StartOfDay() changed location to %v", got.Location())
	}
}

func TestParseDateInLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("timezone data not available")
	}
	got, err := ParseDateInLocation("2026-01-02", loc)
	if err != nil {
		t.Fatalf("ParseDateInLocation() error = %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.January || got.Day() != 2 || got.Hour() != 0 {
		t.Errorf("ParseDateInLocation() = %v", got)
	}
	if got.Location() != loc {
		t.Errorf("location = %v, want %v", got.Location(), loc)
	}

	if _, err := ParseDateInLocation("01/02/2026", loc); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestParseSince(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
	day := func(m time.Month, d int) time.Time {
		return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "today", value: "today", want: day(3, 14)},
		{name: "case and space", value: "  Yesterday ", want: day(3, 13)},
		{name: "date", value: "2026-02-01", want: day(2, 1)},
		{name: "days", value: "10d", want: day(3, 4)},
		{name: "zero days", value: "0d", want: day(3, 14)},
		{name: "weeks", value: "2w", want: day(2, 28)},
		{name: "empty", value: "", wantErr: true},
		{name: "unknown unit", value: "3m", wantErr: true},
		{name: "negative", value: "-2d", wantErr: true},
		{name: "garbage", value: "last week", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSince(tt.value, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSince(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseSince(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
