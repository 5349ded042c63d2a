// Package grid computes the date cells behind the calendar views. All
// functions are pure: they take a reference date plus the configured first
// weekday and return freshly built cells, so the same inputs always produce
// the same grid.
package grid

import "time"

// Cell is a single day slot in a rendered grid.
type Cell struct {
	Date            time.Time
	InCurrentPeriod bool // date belongs to the month/week being displayed
	IsToday         bool
}

// MonthGrid returns the 42 cells (six full weeks) covering the given month,
// aligned so the first column is firstWeekday.
func MonthGrid(year int, month time.Month, firstWeekday time.Weekday) []Cell {
	return MonthGridAt(year, month, firstWeekday, time.Now())
}

// MonthGridAt is MonthGrid with an explicit "today" for deterministic tests.
func MonthGridAt(year int, month time.Month, firstWeekday time.Weekday, today time.Time) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	offset := startOffset(first.Weekday(), firstWeekday)

	cells := make([]Cell, 0, 42)
	day := first.AddDate(0, 0, -offset)
	for i := 0; i < 42; i++ {
		cells = append(cells, Cell{
			Date:            day,
			InCurrentPeriod: day.Month() == month,
			IsToday:         sameDay(day, today),
		})
		day = day.AddDate(0, 0, 1)
	}
	return cells
}

// WeekGrid returns the 7 cells of the week containing date, starting at the
// most recent occurrence of firstWeekday on or before date.
func WeekGrid(date time.Time, firstWeekday time.Weekday) []Cell {
	return WeekGridAt(date, firstWeekday, time.Now())
}

// WeekGridAt is WeekGrid with an explicit "today" for deterministic tests.
func WeekGridAt(date time.Time, firstWeekday time.Weekday, today time.Time) []Cell {
	start := StartOfWeek(date, firstWeekday)

	cells := make([]Cell, 0, 7)
	day := start
	for i := 0; i < 7; i++ {
		cells = append(cells, Cell{
			Date:            day,
			InCurrentPeriod: true,
			IsToday:         sameDay(day, today),
		})
		day = day.AddDate(0, 0, 1)
	}
	return cells
}

// YearGrid returns the twelve month grids of a year, January first.
func YearGrid(year int, firstWeekday time.Weekday) [12][]Cell {
	return YearGridAt(year, firstWeekday, time.Now())
}

// YearGridAt is YearGrid with an explicit "today" for deterministic tests.
func YearGridAt(year int, firstWeekday time.Weekday, today time.Time) [12][]Cell {
	var months [12][]Cell
	for m := time.January; m <= time.December; m++ {
		months[m-1] = MonthGridAt(year, m, firstWeekday, today)
	}
	return months
}

// DayGrid returns the single cell for date.
func DayGrid(date time.Time) []Cell {
	return DayGridAt(date, time.Now())
}

// DayGridAt is DayGrid with an explicit "today" for deterministic tests.
func DayGridAt(date time.Time, today time.Time) []Cell {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return []Cell{{Date: d, InCurrentPeriod: true, IsToday: sameDay(d, today)}}
}

// StartOfWeek returns midnight of the most recent firstWeekday on or before
// date.
func StartOfWeek(date time.Time, firstWeekday time.Weekday) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return d.AddDate(0, 0, -startOffset(d.Weekday(), firstWeekday))
}

// DaysIn returns the number of calendar days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// startOffset maps a weekday onto its column index for the given first
// weekday. With a Monday start, Sunday lands in column 6, never -1.
func startOffset(day, firstWeekday time.Weekday) int {
	return (int(day) - int(firstWeekday) + 7) % 7
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
