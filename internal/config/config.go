package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/supercalendrier/supercal/internal/sched"
)

// Config is the preferences store. It is read at startup and written back on
// change; everything else treats it as plain values.
type Config struct {
	// File settings
	CalendarFiles []string
	Editor        string

	// Display settings
	FirstWeekday time.Weekday // Sunday or Monday
	TimeFormat   string
	DateFormat   string
	StartupView  string // year, month, week or day

	// UI settings
	Colors      map[string]string
	KeyBindings map[string]string

	// Behavior settings
	AutoRefresh   bool
	RefreshRate   time.Duration
	RefreshCron   string // cron spec for the notify daemon's event re-sync
	ConfirmDelete bool
	WrapText      bool

	// Reminder settings
	LeadTimes []time.Duration // reminder lead times per event
	Notifier  string          // external command receiving reminder text
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		CalendarFiles: []string{filepath.Join(home, ".calendar.ics")},
		Editor:        getDefaultEditor(),

		FirstWeekday: time.Monday,
		TimeFormat:   "15:04",
		DateFormat:   "Jan 2, 2006",
		StartupView:  "month",

		Colors: map[string]string{
			"normal":   "default",
			"today":    "yellow",
			"selected": "reverse",
			"weekend":  "blue",
			"event":    "green",
			"priority": "red",
			"header":   "bold",
			"timeline": "red",
		},

		KeyBindings: map[string]string{
			"quit":       "q",
			"help":       "?",
			"today":      "t",
			"refresh":    "r",
			"new_event":  "n",
			"goto_date":  "g",
			"next":       "l",
			"prev":       "h",
			"view_year":  "1",
			"view_month": "2",
			"view_week":  "3",
			"view_day":   "4",
		},

		AutoRefresh:   true,
		RefreshRate:   30 * time.Second,
		RefreshCron:   "*/15 * * * *",
		ConfirmDelete: true,
		WrapText:      true,

		LeadTimes: []time.Duration{15 * time.Minute},
		Notifier:  "",
	}
}

// Load reads the first config file found in the usual locations, on top of
// the defaults. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads an explicit config path, or searches the usual locations
// when path is empty.
func LoadFile(path string) (*Config, error) {
	config := DefaultConfig()

	paths := []string{path}
	if path == "" {
		paths = []string{
			os.Getenv("SUPERCAL_CONFIG"),
			filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "supercal", "supercalrc"),
			filepath.Join(os.Getenv("HOME"), ".config", "supercal", "supercalrc"),
			filepath.Join(os.Getenv("HOME"), ".supercalrc"),
		}
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			if err := config.loadFromFile(p); err != nil {
				return nil, fmt.Errorf("error loading config from %s: %w", p, err)
			}
			break
		}
	}

	return config, nil
}

func (c *Config) loadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := c.parseLine(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	return scanner.Err()
}

var (
	setRe   = regexp.MustCompile(`^set\s+(\w+)\s+(.+)$`)
	bindRe  = regexp.MustCompile(`^bind\s+(\S+)\s+(\S+)$`)
	colorRe = regexp.MustCompile(`^color\s+(\w+)\s+(.+)$`)
)

func (c *Config) parseLine(line string) error {
	// Handle set commands: set variable value
	if matches := setRe.FindStringSubmatch(line); matches != nil {
		return c.setVariable(matches[1], matches[2])
	}

	// Handle bind commands: bind key action
	if matches := bindRe.FindStringSubmatch(line); matches != nil {
		c.KeyBindings[matches[2]] = matches[1]
		return nil
	}

	// Handle color commands: color element color_spec
	if matches := colorRe.FindStringSubmatch(line); matches != nil {
		c.Colors[matches[1]] = matches[2]
		return nil
	}

	return fmt.Errorf("unknown config line: %s", line)
}

func (c *Config) setVariable(name, value string) error {
	// Remove quotes if present
	value = strings.Trim(value, `"'`)

	switch name {
	case "calendar_file", "calendar_files":
		files := strings.Split(value, ",")
		for i, file := range files {
			files[i] = expandHome(strings.TrimSpace(file))
		}
		c.CalendarFiles = files

	case "editor":
		c.Editor = value

	case "first_weekday", "week_start_day":
		switch strings.ToLower(value) {
		case "sunday", "sun", "0":
			c.FirstWeekday = time.Sunday
		case "monday", "mon", "1":
			c.FirstWeekday = time.Monday
		default:
			return fmt.Errorf("invalid first_weekday: %s", value)
		}

	case "time_format":
		c.TimeFormat = value

	case "date_format":
		c.DateFormat = value

	case "startup_view":
		switch strings.ToLower(value) {
		case "year", "month", "week", "day":
			c.StartupView = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid startup_view: %s", value)
		}

	case "auto_refresh":
		c.AutoRefresh = strings.ToLower(value) == "true" || value == "1"

	case "refresh_rate":
		rate, err := time.ParseDuration(value)
		if err != nil {
			// Try parsing as seconds
			if seconds, err2 := strconv.Atoi(value); err2 == nil {
				rate = time.Duration(seconds) * time.Second
			} else {
				return fmt.Errorf("invalid refresh_rate: %s", value)
			}
		}
		c.RefreshRate = rate

	case "refresh_cron":
		c.RefreshCron = value

	case "lead_times":
		var leads []time.Duration
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			d, err := sched.ParseLead(part)
			if err != nil {
				return fmt.Errorf("invalid lead_times: %w", err)
			}
			leads = append(leads, d)
		}
		c.LeadTimes = leads

	case "notifier":
		c.Notifier = value

	case "confirm_delete":
		c.ConfirmDelete = strings.ToLower(value) == "true" || value == "1"

	case "wrap_text":
		c.WrapText = strings.ToLower(value) == "true" || value == "1"

	default:
		return fmt.Errorf("unknown config variable: %s", name)
	}

	return nil
}

// Save writes the current preferences back to path in the same set/bind/color
// format Load reads.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("# supercal configuration\n\n")

	fmt.Fprintf(&b, "set calendar_files %s\n", strings.Join(c.CalendarFiles, ","))
	if c.Editor != "" {
		fmt.Fprintf(&b, "set editor %s\n", c.Editor)
	}
	fmt.Fprintf(&b, "set first_weekday %s\n", strings.ToLower(c.FirstWeekday.String()))
	fmt.Fprintf(&b, "set time_format %s\n", c.TimeFormat)
	fmt.Fprintf(&b, "set date_format %s\n", c.DateFormat)
	fmt.Fprintf(&b, "set startup_view %s\n", c.StartupView)
	fmt.Fprintf(&b, "set auto_refresh %t\n", c.AutoRefresh)
	fmt.Fprintf(&b, "set refresh_rate %s\n", c.RefreshRate)
	if c.RefreshCron != "" {
		fmt.Fprintf(&b, "set refresh_cron %s\n", c.RefreshCron)
	}
	if len(c.LeadTimes) > 0 {
		labels := make([]string, len(c.LeadTimes))
		for i, d := range c.LeadTimes {
			labels[i] = sched.FormatLead(d)
		}
		fmt.Fprintf(&b, "set lead_times %s\n", strings.Join(labels, ","))
	}
	if c.Notifier != "" {
		fmt.Fprintf(&b, "set notifier %s\n", c.Notifier)
	}
	fmt.Fprintf(&b, "set confirm_delete %t\n", c.ConfirmDelete)
	fmt.Fprintf(&b, "set wrap_text %t\n", c.WrapText)

	b.WriteString("\n")
	for _, k := range sortedKeys(c.KeyBindings) {
		fmt.Fprintf(&b, "bind %s %s\n", c.KeyBindings[k], k)
	}

	b.WriteString("\n")
	for _, k := range sortedKeys(c.Colors) {
		fmt.Fprintf(&b, "color %s %s\n", k, c.Colors[k])
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func getDefaultEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return "vi"
}
