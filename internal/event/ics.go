package event

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/supercalendrier/supercal/internal/log"
)

// maxOccurrences caps recurrence expansion per VEVENT so a malformed rule
// cannot blow up a query window.
const maxOccurrences = 1000

// ICSSource reads events from one or more iCalendar (.ics) files. Recurring
// events are expanded into concrete occurrences inside the queried window.
type ICSSource struct {
	files   []string
	watcher *Watcher
	changes chan ChangeEvent
}

func NewICSSource(files ...string) *ICSSource {
	return &ICSSource{files: files}
}

func (s *ICSSource) SetFiles(files []string) {
	s.files = files
}

// Events implements Source. Files that fail to open or parse are logged and
// skipped; a single bad calendar does not hide the others.
func (s *ICSSource) Events(start, end time.Time) ([]Event, error) {
	if len(s.files) == 0 {
		return nil, fmt.Errorf("no calendar files configured")
	}

	var all []Event
	for _, path := range s.files {
		events, err := s.loadFile(path, start, end)
		if err != nil {
			log.Error("calendar load failed", err, "path", path)
			continue
		}
		all = append(all, events...)
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].Start().Equal(all[j].Start()) {
			return all[i].Start().Before(all[j].Start())
		}
		return all[i].ID < all[j].ID
	})
	return all, nil
}

func (s *ICSSource) loadFile(path string, start, end time.Time) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cal, err := ical.ParseCalendar(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var events []Event
	for _, ve := range cal.Events() {
		occ, err := expandVEvent(ve, path, start, end)
		if err != nil {
			log.Error("skipping unparseable event", err, "path", path)
			continue
		}
		events = append(events, occ...)
	}
	return events, nil
}

// expandVEvent turns a VEVENT into zero or more occurrences within
// [start, end].
func expandVEvent(ve *ical.VEvent, source string, start, end time.Time) ([]Event, error) {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return nil, fmt.Errorf("missing UID")
	}
	uid := uidProp.Value

	dtStart, err := ve.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("event %s: bad DTSTART: %w", uid, err)
	}

	var duration *time.Duration
	if dtEnd, err := ve.GetEndAt(); err == nil && dtEnd.After(dtStart) {
		d := dtEnd.Sub(dtStart)
		duration = &d
	}

	allDay := isAllDay(ve)

	base := Event{
		Summary:  propValue(ve, ical.ComponentPropertySummary),
		Body:     propValue(ve, ical.ComponentPropertyDescription),
		Location: propValue(ve, ical.ComponentPropertyLocation),
		Priority: parsePriority(propValue(ve, ical.ComponentProperty("PRIORITY"))),
		Tags:     parseTags(ve),
		Source:   source,
	}

	rruleProp := ve.GetProperty(ical.ComponentPropertyRrule)
	if rruleProp == nil || rruleProp.Value == "" {
		if dtStart.Before(start) || dtStart.After(end) {
			return nil, nil
		}
		return []Event{makeOccurrence(base, uid, dtStart, duration, allDay, false)}, nil
	}

	// Recurring: expand RRULE minus EXDATEs inside the window.
	rule, err := rrule.StrToRRule(rruleProp.Value)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad RRULE %q: %w", uid, rruleProp.Value, err)
	}
	rule.DTStart(dtStart)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range exDates(ve) {
		set.ExDate(ex.In(dtStart.Location()))
	}

	starts := set.Between(start.In(dtStart.Location()), end.In(dtStart.Location()), true)
	if len(starts) > maxOccurrences {
		log.Error("recurrence expansion truncated", fmt.Errorf("cap reached"), "uid", uid, "cap", maxOccurrences)
		starts = starts[:maxOccurrences]
	}

	events := make([]Event, 0, len(starts))
	for _, occStart := range starts {
		events = append(events, makeOccurrence(base, uid, occStart, duration, allDay, true))
	}
	return events, nil
}

func makeOccurrence(base Event, uid string, start time.Time, duration *time.Duration, allDay, repeating bool) Event {
	ev := base
	local := start.In(time.Local)
	if allDay {
		// Keep the literal calendar day; converting a date-only stamp into
		// the local zone can shift it across midnight.
		ev.Date = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)
	} else {
		ev.Date = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
		t := local
		ev.Time = &t
		ev.Duration = duration
	}
	ev.IsRepeating = repeating
	if repeating {
		ev.ID = OccurrenceID(uid, local)
	} else {
		ev.ID = uid
	}
	return ev
}

func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func exDates(ve *ical.VEvent) []time.Time {
	var out []time.Time
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// parseICSTime handles the basic DATE, DATE-TIME and UTC forms used by
// EXDATE values.
func parseICSTime(v string) (time.Time, error) {
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.Local)
	default:
		return time.ParseInLocation("20060102", v, time.Local)
	}
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// parsePriority maps the iCalendar 1..9 priority scale (1 highest) onto the
// coarse levels the UI renders.
func parsePriority(v string) Priority {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return PriorityNone
	}
	switch {
	case n <= 3:
		return PriorityHigh
	case n <= 6:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func parseTags(ve *ical.VEvent) []string {
	var tags []string
	for _, p := range ve.GetProperties(ical.ComponentProperty("CATEGORIES")) {
		for _, part := range strings.Split(p.Value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
	}
	return tags
}

// AddEvent appends a new VEVENT to the first configured calendar file,
// creating the file if needed. The event's generated UID is returned.
func (s *ICSSource) AddEvent(summary string, start time.Time, duration time.Duration, allDay bool) (string, error) {
	if len(s.files) == 0 {
		return "", fmt.Errorf("no calendar files configured")
	}
	path := s.files[0]

	var cal *ical.Calendar
	if f, err := os.Open(path); err == nil {
		cal, err = ical.ParseCalendar(f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		cal = ical.NewCalendar()
		cal.SetProductId("-//supercal//EN")
		cal.SetVersion("2.0")
	}

	uid := fmt.Sprintf("supercal-%d", time.Now().UnixNano())
	ve := cal.AddEvent(uid)
	ve.SetSummary(summary)
	if allDay {
		ve.SetAllDayStartAt(start)
		ve.SetAllDayEndAt(start.AddDate(0, 0, 1))
	} else {
		ve.SetStartAt(start)
		if duration > 0 {
			ve.SetEndAt(start.Add(duration))
		}
	}
	ve.SetDtStampTime(time.Now())

	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return uid, nil
}

// Watch implements Source using an fsnotify watcher over the configured
// files.
func (s *ICSSource) Watch() (<-chan ChangeEvent, error) {
	if s.watcher != nil {
		return s.changes, nil
	}

	s.changes = make(chan ChangeEvent, 10)
	w, err := NewWatcher(func(path string) {
		select {
		case s.changes <- ChangeEvent{Path: path, Timestamp: time.Now()}:
		default:
		}
	})
	if err != nil {
		s.changes = nil
		return nil, err
	}
	s.watcher = w

	for _, f := range s.files {
		if err := w.AddFile(f); err != nil {
			log.Error("cannot watch calendar file", err, "path", f)
		}
	}
	return s.changes, nil
}

func (s *ICSSource) StopWatch() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}
