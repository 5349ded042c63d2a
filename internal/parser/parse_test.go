package parser

import (
	"testing"
	"time"
)

func fixedParser() *Parser {
	p := New()
	// Wednesday, August 20, 2025
	p.SetNow(time.Date(2025, 8, 20, 14, 30, 0, 0, time.Local))
	return p
}

func TestParseDates(t *testing.T) {
	p := fixedParser()

	tests := []struct {
		name     string
		input    string
		wantDate time.Time
		wantText string
	}{
		{
			name:     "today",
			input:    "today Standup",
			wantDate: time.Date(2025, 8, 20, 0, 0, 0, 0, time.Local),
			wantText: "Standup",
		},
		{
			name:     "tomorrow",
			input:    "tomorrow Dentist",
			wantDate: time.Date(2025, 8, 21, 0, 0, 0, 0, time.Local),
			wantText: "Dentist",
		},
		{
			name:     "iso date",
			input:    "2025-12-24 Christmas Eve",
			wantDate: time.Date(2025, 12, 24, 0, 0, 0, 0, time.Local),
			wantText: "Christmas Eve",
		},
		{
			name:     "slash date with year",
			input:    "12/25/2025 Christmas",
			wantDate: time.Date(2025, 12, 25, 0, 0, 0, 0, time.Local),
			wantText: "Christmas",
		},
		{
			name:     "slash date current year",
			input:    "9/1 School",
			wantDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.Local),
			wantText: "School",
		},
		{
			name:     "month name",
			input:    "march 3 Review",
			wantDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local),
			wantText: "Review",
		},
		{
			name:     "next weekday",
			input:    "next friday Drinks",
			wantDate: time.Date(2025, 8, 29, 0, 0, 0, 0, time.Local),
			wantText: "Drinks",
		},
		{
			name:     "this weekday later in week",
			input:    "this friday Drinks",
			wantDate: time.Date(2025, 8, 22, 0, 0, 0, 0, time.Local),
			wantText: "Drinks",
		},
		{
			name:     "in N days",
			input:    "in 3 days Follow up",
			wantDate: time.Date(2025, 8, 23, 0, 0, 0, 0, time.Local),
			wantText: "Follow up",
		},
		{
			name:     "in N weeks",
			input:    "in 2 weeks Check in",
			wantDate: time.Date(2025, 9, 3, 0, 0, 0, 0, time.Local),
			wantText: "Check in",
		},
		{
			name:     "no date defaults to today",
			input:    "Water plants",
			wantDate: time.Date(2025, 8, 20, 0, 0, 0, 0, time.Local),
			wantText: "Water plants",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if !got.Date.Equal(tt.wantDate) {
				t.Errorf("date = %s, want %s",
					got.Date.Format("2006-01-02"), tt.wantDate.Format("2006-01-02"))
			}
			if got.Text != tt.wantText {
				t.Errorf("text = %q, want %q", got.Text, tt.wantText)
			}
		})
	}
}

func TestParseTimes(t *testing.T) {
	p := fixedParser()

	tests := []struct {
		name         string
		input        string
		wantHour     int
		wantMin      int
		wantDuration time.Duration
		wantText     string
	}{
		{
			name:     "24h time",
			input:    "tomorrow 14:00 Meeting",
			wantHour: 14,
			wantText: "Meeting",
		},
		{
			name:     "pm time",
			input:    "tomorrow 2pm Meeting",
			wantHour: 14,
			wantText: "Meeting",
		},
		{
			name:     "12am is midnight",
			input:    "tomorrow 12am Launch",
			wantHour: 0,
			wantText: "Launch",
		},
		{
			name:     "time with minutes",
			input:    "tomorrow 2:30pm Meeting",
			wantHour: 14,
			wantMin:  30,
			wantText: "Meeting",
		},
		{
			name:         "time range",
			input:        "tomorrow 2pm-4pm Workshop",
			wantHour:     14,
			wantDuration: 2 * time.Hour,
			wantText:     "Workshop",
		},
		{
			name:     "at prefix",
			input:    "tomorrow at 9am Standup",
			wantHour: 9,
			wantText: "Standup",
		},
		{
			name:     "noon",
			input:    "tomorrow noon Lunch",
			wantHour: 12,
			wantText: "Lunch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if !got.HasTime {
				t.Fatalf("Parse(%q): no time parsed", tt.input)
			}
			if got.Time.Hour() != tt.wantHour || got.Time.Minute() != tt.wantMin {
				t.Errorf("time = %02d:%02d, want %02d:%02d",
					got.Time.Hour(), got.Time.Minute(), tt.wantHour, tt.wantMin)
			}
			if got.Duration != tt.wantDuration {
				t.Errorf("duration = %s, want %s", got.Duration, tt.wantDuration)
			}
			if got.Text != tt.wantText {
				t.Errorf("text = %q, want %q", got.Text, tt.wantText)
			}
			// The parsed time carries the entry date, not today's.
			if got.Time.Day() != got.Date.Day() {
				t.Errorf("time anchored on %s, want %s",
					got.Time.Format("2006-01-02"), got.Date.Format("2006-01-02"))
			}
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := fixedParser()
	if _, err := p.Parse("   "); err == nil {
		t.Error("expected error for blank input")
	}
}

func TestParseDate(t *testing.T) {
	p := fixedParser()

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2020-10-15", time.Date(2020, 10, 15, 0, 0, 0, 0, time.Local), false},
		{"12/25/2024", time.Date(2024, 12, 25, 0, 0, 0, 0, time.Local), false},
		{"1/1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local), false},
		{"today", time.Date(2025, 8, 20, 0, 0, 0, 0, time.Local), false},
		{"tomorrow", time.Date(2025, 8, 21, 0, 0, 0, 0, time.Local), false},
		{"not-a-date-at-all", time.Time{}, true},
		{"", time.Time{}, true},
		{"today plus junk", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := p.ParseDate(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q): expected error, got %s", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %s, want %s",
				tt.input, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
		}
	}
}
