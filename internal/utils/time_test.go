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
		{
			name:     "empty string returns default zone",
			timezone: "",
			wantErr:  false,
		},
		{
			name:     "Local returns local",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "valid timezone UTC",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "valid timezone America/Sao_Paulo",
			timezone: "America/Sao_Paulo",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestWeekAnchor(t *testing.T) {
	tests := []struct {
		name  string
		today string
		want  string
	}{
		{"monday stays", "2026-01-05", "2026-01-05"},
		{"wednesday", "2026-01-07", "2026-01-05"},
		{"saturday", "2026-01-10", "2026-01-05"},
		{"sunday goes back six days", "2026-01-11", "2026-01-05"},
		{"across month boundary", "2026-03-01", "2026-02-23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			today, err := ParseDateInLocation(tt.today, time.UTC)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			got := WeekAnchor(today.Add(15 * time.Hour)).Format("2006-01-02")
			if got != tt.want {
				t.Errorf("WeekAnchor(%s) = %s, want %s", tt.today, got, tt.want)
			}
		})
	}
}

func TestResolveDate(t *testing.T) {
	now := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty is today", "", "2026-01-07", false},
		{"today keyword", "today", "2026-01-07", false},
		{"hoje keyword", "Hoje", "2026-01-07", false},
		{"exact date", "2026-02-14", "2026-02-14", false},
		{"tomorrow", "tomorrow", "2026-01-08", false},
		{"garbage", "xyzzy", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDate(tt.input, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFixedClock(t *testing.T) {
	loc, err := LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	c := FixedClock{T: time.Date(2026, 1, 11, 23, 30, 0, 0, loc)}
	if got := Today(c); got != "2026-01-11" {
		t.Errorf("Today() = %s, want 2026-01-11", got)
	}
	if c.Location() != loc {
		t.Errorf("Location() mismatch")
	}
}
