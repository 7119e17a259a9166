package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "valid timezone America/New_York", timezone: "America/New_York"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestFormatHour(t *testing.T) {
	tests := map[int]string{
		0:  "12:00 AM",
		6:  "6:00 AM",
		11: "11:00 AM",
		12: "12:00 PM",
		14: "2:00 PM",
		23: "11:00 PM",
	}
	for hour, want := range tests {
		if got := FormatHour(hour); got != want {
			t.Errorf("FormatHour(%d) = %q, want %q", hour, got, want)
		}
	}
}

func TestIsFutureHour(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		date string
		hour int
		want bool
	}{
		{"2026-03-01", 13, false},
		{"2026-03-01", 14, false},
		{"2026-03-01", 15, true},
		{"2026-02-28", 23, false},
		{"2026-03-02", 0, true},
	}
	for _, tt := range tests {
		if got := IsFutureHour(tt.date, tt.hour, now); got != tt.want {
			t.Errorf("IsFutureHour(%s, %d) = %v, want %v", tt.date, tt.hour, got, tt.want)
		}
	}
}

func TestEpochMillis(t *testing.T) {
	if !FromEpochMillis(0).IsZero() {
		t.Error("FromEpochMillis(0) should be the zero time")
	}
	if ToEpochMillis(time.Time{}) != 0 {
		t.Error("ToEpochMillis(zero) should be 0")
	}
	ts := time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC)
	if got := FromEpochMillis(ToEpochMillis(ts)); !got.Equal(ts) {
		t.Errorf("round trip = %v, want %v", got, ts)
	}
}

func TestParseDate(t *testing.T) {
	loc, _ := LoadLocation("UTC")
	got, err := ParseDate("2026-03-01", loc)
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if got.Day() != 1 || got.Month() != time.March || got.Hour() != 0 {
		t.Errorf("ParseDate() = %v", got)
	}
	if _, err := ParseDate("03/01/2026", loc); err == nil {
		t.Error("expected error for malformed date")
	}
	if ValidateDate("2026-02-30") {
		t.Error("ValidateDate accepted an impossible date")
	}
}
