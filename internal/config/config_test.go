package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FirstWeekday != time.Monday {
		t.Errorf("Wrong default first weekday: %v", cfg.FirstWeekday)
	}

	if cfg.TimeFormat != "15:04" {
		t.Errorf("Wrong default time format: %s", cfg.TimeFormat)
	}

	if cfg.DateFormat != "Jan 2, 2006" {
		t.Errorf("Wrong default date format: %s", cfg.DateFormat)
	}

	if cfg.StartupView != "month" {
		t.Errorf("Wrong default startup view: %s", cfg.StartupView)
	}

	if !cfg.AutoRefresh {
		t.Error("Auto refresh should be enabled by default")
	}

	if cfg.RefreshRate != 30*time.Second {
		t.Errorf("Wrong default refresh rate: %v", cfg.RefreshRate)
	}

	if len(cfg.LeadTimes) != 1 || cfg.LeadTimes[0] != 15*time.Minute {
		t.Errorf("Wrong default lead times: %v", cfg.LeadTimes)
	}

	if len(cfg.KeyBindings) == 0 {
		t.Error("Default key bindings should not be empty")
	}
}

func TestParseLine(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		line     string
		check    func(*Config) bool
		hasError bool
	}{
		{
			line: "set first_weekday sunday",
			check: func(c *Config) bool {
				return c.FirstWeekday == time.Sunday
			},
		},
		{
			line: "set auto_refresh false",
			check: func(c *Config) bool {
				return !c.AutoRefresh
			},
		},
		{
			line: "set refresh_rate 60",
			check: func(c *Config) bool {
				return c.RefreshRate == 60*time.Second
			},
		},
		{
			line: "bind j next",
			check: func(c *Config) bool {
				return c.KeyBindings["next"] == "j"
			},
		},
		{
			line: "color today yellow",
			check: func(c *Config) bool {
				return c.Colors["today"] == "yellow"
			},
		},
		{
			line:     "invalid command",
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			err := cfg.parseLine(tt.line)

			if tt.hasError && err == nil {
				t.Error("Expected error but got none")
			}

			if !tt.hasError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Check failed for line: %s", tt.line)
			}
		})
	}
}

func TestSetVariable(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		value    string
		check    func(*Config) bool
		hasError bool
	}{
		{
			name:  "calendar_files",
			value: "~/personal.ics,/tmp/work.ics",
			check: func(c *Config) bool {
				return len(c.CalendarFiles) == 2 && strings.HasSuffix(c.CalendarFiles[1], "work.ics")
			},
		},
		{
			name:  "editor",
			value: "vim",
			check: func(c *Config) bool {
				return c.Editor == "vim"
			},
		},
		{
			name:  "startup_view",
			value: "week",
			check: func(c *Config) bool {
				return c.StartupView == "week"
			},
		},
		{
			name:     "startup_view",
			value:    "fortnight",
			hasError: true,
		},
		{
			name:  "lead_times",
			value: "15m,1h,1d",
			check: func(c *Config) bool {
				return len(c.LeadTimes) == 3 &&
					c.LeadTimes[0] == 15*time.Minute &&
					c.LeadTimes[1] == time.Hour &&
					c.LeadTimes[2] == 24*time.Hour
			},
		},
		{
			name:     "lead_times",
			value:    "soon",
			hasError: true,
		},
		{
			name:  "notifier",
			value: "notify-send",
			check: func(c *Config) bool {
				return c.Notifier == "notify-send"
			},
		},
		{
			name:  "refresh_rate",
			value: "5m",
			check: func(c *Config) bool {
				return c.RefreshRate == 5*time.Minute
			},
		},
		{
			name:  "refresh_cron",
			value: "*/5 * * * *",
			check: func(c *Config) bool {
				return c.RefreshCron == "*/5 * * * *"
			},
		},
		{
			name:     "first_weekday",
			value:    "wednesday",
			hasError: true,
		},
		{
			name:     "unknown_variable",
			value:    "something",
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			err := cfg.setVariable(tt.name, tt.value)

			if tt.hasError && err == nil {
				t.Error("Expected error but got none")
			}

			if !tt.hasError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Check failed for %s = %s", tt.name, tt.value)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "test_supercalrc")

	content := `# Test config file
set calendar_files ~/personal.ics,~/work.ics
set editor emacs
set first_weekday sunday
set startup_view week
set auto_refresh false
set refresh_rate 120
set lead_times 30m,1d
set notifier notify-send

bind q quit
bind n new_event

color today cyan
color selected reverse
`

	err := os.WriteFile(configFile, []byte(content), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := DefaultConfig()
	err = cfg.loadFromFile(configFile)
	if err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if len(cfg.CalendarFiles) != 2 {
		t.Errorf("Wrong number of calendar files: %d", len(cfg.CalendarFiles))
	}

	if cfg.Editor != "emacs" {
		t.Errorf("Wrong editor: %s", cfg.Editor)
	}

	if cfg.FirstWeekday != time.Sunday {
		t.Errorf("Wrong first weekday: %v", cfg.FirstWeekday)
	}

	if cfg.StartupView != "week" {
		t.Errorf("Wrong startup view: %s", cfg.StartupView)
	}

	if cfg.AutoRefresh {
		t.Error("Auto refresh should be disabled")
	}

	if cfg.RefreshRate != 120*time.Second {
		t.Errorf("Wrong refresh rate: %v", cfg.RefreshRate)
	}

	if len(cfg.LeadTimes) != 2 || cfg.LeadTimes[1] != 24*time.Hour {
		t.Errorf("Wrong lead times: %v", cfg.LeadTimes)
	}

	if cfg.Notifier != "notify-send" {
		t.Errorf("Wrong notifier: %s", cfg.Notifier)
	}

	if cfg.KeyBindings["quit"] != "q" {
		t.Errorf("Wrong quit binding: %s", cfg.KeyBindings["quit"])
	}

	if cfg.Colors["today"] != "cyan" {
		t.Errorf("Wrong today color: %s", cfg.Colors["today"])
	}
}

func TestLoadFromFileReportsLineNumber(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "bad_supercalrc")

	content := "set editor vim\nnot a directive\n"
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	err := cfg.loadFromFile(configFile)
	if err == nil {
		t.Fatal("Expected error for invalid line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Error does not name the failing line: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "supercalrc")

	cfg := DefaultConfig()
	cfg.FirstWeekday = time.Sunday
	cfg.StartupView = "day"
	cfg.LeadTimes = []time.Duration{30 * time.Minute, 24 * time.Hour}
	cfg.Notifier = "notify-send"
	cfg.CalendarFiles = []string{"/tmp/a.ics", "/tmp/b.ics"}

	if err := cfg.Save(configFile); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := DefaultConfig()
	if err := loaded.loadFromFile(configFile); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if loaded.FirstWeekday != time.Sunday {
		t.Errorf("first weekday not round-tripped: %v", loaded.FirstWeekday)
	}
	if loaded.StartupView != "day" {
		t.Errorf("startup view not round-tripped: %s", loaded.StartupView)
	}
	if len(loaded.LeadTimes) != 2 || loaded.LeadTimes[0] != 30*time.Minute {
		t.Errorf("lead times not round-tripped: %v", loaded.LeadTimes)
	}
	if len(loaded.CalendarFiles) != 2 || loaded.CalendarFiles[0] != "/tmp/a.ics" {
		t.Errorf("calendar files not round-tripped: %v", loaded.CalendarFiles)
	}
}

func TestGetDefaultEditor(t *testing.T) {
	origEditor := os.Getenv("EDITOR")
	origVisual := os.Getenv("VISUAL")
	defer func() {
		os.Setenv("EDITOR", origEditor)
		os.Setenv("VISUAL", origVisual)
	}()

	os.Setenv("EDITOR", "nano")
	os.Setenv("VISUAL", "")
	if editor := getDefaultEditor(); editor != "nano" {
		t.Errorf("Expected nano, got %s", editor)
	}

	os.Setenv("EDITOR", "")
	os.Setenv("VISUAL", "code")
	if editor := getDefaultEditor(); editor != "code" {
		t.Errorf("Expected code, got %s", editor)
	}

	os.Setenv("EDITOR", "")
	os.Setenv("VISUAL", "")
	if editor := getDefaultEditor(); editor != "vi" {
		t.Errorf("Expected vi, got %s", editor)
	}
}
