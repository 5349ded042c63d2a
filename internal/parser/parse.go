// Package parser turns free-form event input like "tomorrow 2pm Standup"
// into a date, an optional time/duration, and the remaining description.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Entry is the result of parsing one line of event input.
type Entry struct {
	Date     time.Time
	HasTime  bool
	Time     time.Time
	Duration time.Duration
	Text     string // what remains after date and time are consumed
}

// Parser resolves relative inputs against a fixed "now" so results are
// stable within one parse and under test.
type Parser struct {
	now time.Time
	loc *time.Location
}

func New() *Parser {
	return &Parser{now: time.Now(), loc: time.Local}
}

// SetNow pins the reference instant, mainly for tests.
func (p *Parser) SetNow(now time.Time) {
	p.now = now
}

var (
	isoDateRe    = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)
	slashDateRe  = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})(?:[/-](\d{4}))?`)
	monthNameRe  = regexp.MustCompile(`^(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|september|oct|october|nov|november|dec|december)\s+(\d{1,2})(?:,?\s+(\d{4}))?`)
	weekdayRe    = regexp.MustCompile(`^(next|this)\s+(mon|monday|tue|tuesday|wed|wednesday|thu|thursday|fri|friday|sat|saturday|sun|sunday)\b`)
	relDaysRe    = regexp.MustCompile(`^in\s+(\d+)\s+(day|days|week|weeks|month|months)\b`)
	timeRangeRe  = regexp.MustCompile(`^(\d{1,2}):?(\d{2})?\s*(am|pm)?\s*-\s*(\d{1,2}):?(\d{2})?\s*(am|pm)?`)
	singleTimeRe = regexp.MustCompile(`^(\d{1,2}):?(\d{2})?\s*(am|pm)?\b`)
)

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var namedHours = map[string]int{
	"noon":     12,
	"midnight": 0,
	"morning":  9,
	"evening":  18,
}

// Parse consumes a leading date (defaulting to today) and an optional time
// or time range, returning the rest as description text.
func (p *Parser) Parse(input string) (*Entry, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	e := &Entry{}
	rest := input

	if date, r, ok := p.consumeDate(rest); ok {
		e.Date = date
		rest = r
	} else {
		e.Date = p.today()
	}

	if t, dur, r, ok := p.consumeTime(rest, e.Date); ok {
		e.HasTime = true
		e.Time = t
		e.Duration = dur
		rest = r
	}

	e.Text = strings.TrimSpace(rest)
	return e, nil
}

// ParseDate parses a bare date expression, as used by the goto-date prompt.
// Unlike Parse, leftover text is an error.
func (p *Parser) ParseDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty input")
	}
	date, rest, ok := p.consumeDate(input)
	if !ok || rest != "" {
		return time.Time{}, fmt.Errorf("unrecognized date: %q", input)
	}
	return date, nil
}

func (p *Parser) consumeDate(input string) (time.Time, string, bool) {
	lower := strings.ToLower(input)

	for word, offset := range map[string]int{"today": 0, "tomorrow": 1, "yesterday": -1} {
		if strings.HasPrefix(lower, word) {
			return p.today().AddDate(0, 0, offset), strings.TrimSpace(input[len(word):]), true
		}
	}

	if m := weekdayRe.FindStringSubmatch(lower); m != nil {
		date := p.nextWeekday(weekdays[m[2]], m[1] == "next")
		return date, strings.TrimSpace(input[len(m[0]):]), true
	}

	if m := relDaysRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		date := p.today()
		switch {
		case strings.HasPrefix(m[2], "day"):
			date = date.AddDate(0, 0, n)
		case strings.HasPrefix(m[2], "week"):
			date = date.AddDate(0, 0, n*7)
		case strings.HasPrefix(m[2], "month"):
			date = date.AddDate(0, n, 0)
		}
		return date, strings.TrimSpace(input[len(m[0]):]), true
	}

	if m := isoDateRe.FindStringSubmatch(input); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, p.loc)
		return date, strings.TrimSpace(input[len(m[0]):]), true
	}

	if m := slashDateRe.FindStringSubmatch(input); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := p.now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, p.loc)
			return date, strings.TrimSpace(input[len(m[0]):]), true
		}
	}

	if m := monthNameRe.FindStringSubmatch(lower); m != nil {
		day, _ := strconv.Atoi(m[2])
		year := p.now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		date := time.Date(year, months[m[1]], day, 0, 0, 0, 0, p.loc)
		return date, strings.TrimSpace(input[len(m[0]):]), true
	}

	return time.Time{}, input, false
}

func (p *Parser) consumeTime(input string, date time.Time) (time.Time, time.Duration, string, bool) {
	lower := strings.ToLower(input)

	if strings.HasPrefix(lower, "at ") {
		lower = lower[3:]
		input = input[3:]
	}

	// Time range, e.g. "2pm-4pm" or "14:00-16:00"
	if m := timeRangeRe.FindStringSubmatch(lower); m != nil {
		start := clockTime(date, m[1], m[2], m[3], p.loc)
		end := clockTime(date, m[4], m[5], m[6], p.loc)
		return start, end.Sub(start), strings.TrimSpace(input[len(m[0]):]), true
	}

	// Single time, e.g. "2pm", "14:00", "2:30pm"
	if m := singleTimeRe.FindStringSubmatch(lower); m != nil {
		t := clockTime(date, m[1], m[2], m[3], p.loc)
		return t, 0, strings.TrimSpace(input[len(m[0]):]), true
	}

	for name, hour := range namedHours {
		if strings.HasPrefix(lower, name) {
			t := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, p.loc)
			return t, 0, strings.TrimSpace(input[len(name):]), true
		}
	}

	return time.Time{}, 0, input, false
}

func clockTime(date time.Time, hourStr, minStr, ampm string, loc *time.Location) time.Time {
	hour, _ := strconv.Atoi(hourStr)
	min := 0
	if minStr != "" {
		min, _ = strconv.Atoi(minStr)
	}
	if ampm == "pm" && hour < 12 {
		hour += 12
	} else if ampm == "am" && hour == 12 {
		hour = 0
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, loc)
}

func (p *Parser) nextWeekday(target time.Weekday, skipThisWeek bool) time.Time {
	date := p.today()
	days := int(target - date.Weekday())
	if days <= 0 || skipThisWeek {
		days += 7
	}
	return date.AddDate(0, 0, days)
}

func (p *Parser) today() time.Time {
	y, m, d := p.now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.loc)
}
