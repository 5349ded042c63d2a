package grid

import (
	"testing"
	"time"
)

func TestMonthGridMarch2025MondayStart(t *testing.T) {
	today := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	cells := MonthGridAt(2025, time.March, time.Monday, today)

	if len(cells) != 42 {
		t.Fatalf("expected 42 cells, got %d", len(cells))
	}

	// March 1, 2025 is a Saturday; with a Monday start it sits in column 5.
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	if !cells[5].Date.Equal(want) {
		t.Errorf("cell[5] = %s, want %s", cells[5].Date.Format("2006-01-02"), want.Format("2006-01-02"))
	}

	// Cells 0..4 are the trailing days of February.
	for i := 0; i < 5; i++ {
		wantDay := 24 + i
		if cells[i].Date.Month() != time.February || cells[i].Date.Day() != wantDay {
			t.Errorf("cell[%d] = %s, want Feb %d", i, cells[i].Date.Format("2006-01-02"), wantDay)
		}
		if cells[i].InCurrentPeriod {
			t.Errorf("cell[%d] flagged InCurrentPeriod but belongs to February", i)
		}
	}

	if !cells[19].IsToday {
		t.Errorf("cell for March 15 not flagged IsToday")
	}
}

func TestMonthGridSundayColumnWithMondayStart(t *testing.T) {
	// June 2025 begins on a Sunday. With a Monday start the 1st must land in
	// column 6, not column -1.
	cells := MonthGridAt(2025, time.June, time.Monday, time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local))
	if cells[6].Date.Day() != 1 || cells[6].Date.Month() != time.June {
		t.Errorf("cell[6] = %s, want June 1", cells[6].Date.Format("2006-01-02"))
	}
	// Columns 0..5 are the end of May.
	for i := 0; i < 6; i++ {
		if cells[i].Date.Month() != time.May {
			t.Errorf("cell[%d] = %s, want a May date", i, cells[i].Date.Format("2006-01-02"))
		}
	}
}

func TestMonthGridCurrentPeriodCount(t *testing.T) {
	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)

	months := []struct {
		year  int
		month time.Month
	}{
		{2025, time.January},
		{2025, time.February},
		{2024, time.February}, // leap year
		{2025, time.April},
		{2025, time.December},
		{2000, time.February}, // leap century
		{1900, time.February}, // non-leap century
	}

	for _, tc := range months {
		for _, fw := range []time.Weekday{time.Sunday, time.Monday} {
			cells := MonthGridAt(tc.year, tc.month, fw, today)
			if len(cells) != 42 {
				t.Fatalf("%d-%02d fw=%d: expected 42 cells, got %d", tc.year, tc.month, fw, len(cells))
			}

			count := 0
			for _, c := range cells {
				if c.InCurrentPeriod {
					count++
				}
			}
			if want := DaysIn(tc.year, tc.month); count != want {
				t.Errorf("%d-%02d fw=%d: %d cells in period, want %d", tc.year, tc.month, fw, count, want)
			}
		}
	}
}

func TestMonthGridConsecutiveDates(t *testing.T) {
	cells := MonthGridAt(2025, time.August, time.Sunday, time.Now())
	for i := 1; i < len(cells); i++ {
		if !cells[i].Date.Equal(cells[i-1].Date.AddDate(0, 0, 1)) {
			t.Fatalf("cells %d and %d are not consecutive: %s -> %s",
				i-1, i, cells[i-1].Date.Format("2006-01-02"), cells[i].Date.Format("2006-01-02"))
		}
	}
}

func TestWeekGridStartsOnFirstWeekday(t *testing.T) {
	tests := []struct {
		name      string
		date      time.Time
		fw        time.Weekday
		wantStart time.Time
	}{
		{
			name:      "midweek with Monday start",
			date:      time.Date(2025, 3, 5, 10, 0, 0, 0, time.Local), // Wednesday
			fw:        time.Monday,
			wantStart: time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "Sunday with Monday start goes back six days",
			date:      time.Date(2025, 3, 9, 0, 0, 0, 0, time.Local), // Sunday
			fw:        time.Monday,
			wantStart: time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "on the first weekday itself",
			date:      time.Date(2025, 3, 3, 23, 59, 0, 0, time.Local), // Monday
			fw:        time.Monday,
			wantStart: time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "Sunday start",
			date:      time.Date(2025, 3, 5, 0, 0, 0, 0, time.Local),
			fw:        time.Sunday,
			wantStart: time.Date(2025, 3, 2, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "week spanning a month boundary",
			date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local), // Tuesday
			fw:        time.Monday,
			wantStart: time.Date(2025, 3, 31, 0, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := WeekGridAt(tt.date, tt.fw, time.Now())
			if len(cells) != 7 {
				t.Fatalf("expected 7 cells, got %d", len(cells))
			}
			if !cells[0].Date.Equal(tt.wantStart) {
				t.Errorf("week starts %s, want %s",
					cells[0].Date.Format("2006-01-02"), tt.wantStart.Format("2006-01-02"))
			}
			if cells[0].Date.Weekday() != tt.fw {
				t.Errorf("week starts on %s, want %s", cells[0].Date.Weekday(), tt.fw)
			}
			for i := 1; i < 7; i++ {
				if !cells[i].Date.Equal(cells[i-1].Date.AddDate(0, 0, 1)) {
					t.Errorf("cells %d and %d are not consecutive", i-1, i)
				}
			}
		})
	}
}

func TestYearGrid(t *testing.T) {
	today := time.Date(2025, 7, 4, 0, 0, 0, 0, time.Local)
	months := YearGridAt(2025, time.Monday, today)

	for i, cells := range months {
		if len(cells) != 42 {
			t.Errorf("month %d: expected 42 cells, got %d", i+1, len(cells))
		}
	}

	// The July grid must flag today.
	found := false
	for _, c := range months[6] {
		if c.IsToday {
			found = true
			if c.Date.Day() != 4 {
				t.Errorf("IsToday on %s, want July 4", c.Date.Format("2006-01-02"))
			}
		}
	}
	if !found {
		t.Error("no cell flagged IsToday in the July grid")
	}
}

func TestDayGrid(t *testing.T) {
	today := time.Date(2025, 5, 20, 8, 30, 0, 0, time.Local)
	cells := DayGridAt(today, today)
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	if !cells[0].IsToday || !cells[0].InCurrentPeriod {
		t.Errorf("unexpected flags: %+v", cells[0])
	}
	if cells[0].Date.Hour() != 0 {
		t.Errorf("cell date not normalized to midnight: %s", cells[0].Date)
	}
}

func TestStartOffsetAllWeekdays(t *testing.T) {
	// Every weekday must map into [0,6] for both supported week starts.
	for _, fw := range []time.Weekday{time.Sunday, time.Monday} {
		for d := time.Sunday; d <= time.Saturday; d++ {
			off := startOffset(d, fw)
			if off < 0 || off > 6 {
				t.Errorf("startOffset(%s, %s) = %d, want 0..6", d, fw, off)
			}
		}
	}
	if off := startOffset(time.Sunday, time.Monday); off != 6 {
		t.Errorf("Sunday with Monday start = %d, want 6", off)
	}
	if off := startOffset(time.Saturday, time.Monday); off != 5 {
		t.Errorf("Saturday with Monday start = %d, want 5", off)
	}
}
