package cmd

import (
	"fmt"
	"os"

	"github.com/supercalendrier/supercal/internal/config"
	"github.com/supercalendrier/supercal/internal/event"
	"github.com/supercalendrier/supercal/internal/log"
	"github.com/supercalendrier/supercal/internal/ui"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	cfgFile       string
	calendarFiles []string
	verbose       bool
	cfg           *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "supercal",
	Short: "A terminal calendar application for iCalendar files",
	Long: `SuperCal is a terminal calendar application. It reads events from
iCalendar (.ics) files, shows them in year, month, week and day views, and
can run a reminder daemon that notifies you ahead of upcoming events.`,
	RunE: runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringSliceVarP(&calendarFiles, "file", "f", []string{}, "Calendar file(s) to use (can be specified multiple times)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func initConfig() {
	if verbose {
		log.SetLevel(log.LevelDebug)
	}

	var err error
	cfg, err = config.LoadFile(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Command-line files override the configured ones, and the UI needs
	// the override too so new events land in the right file.
	if len(calendarFiles) > 0 {
		cfg.CalendarFiles = calendarFiles
	}
}

// newSource builds the event source from the configured calendar files.
func newSource() *event.ICSSource {
	return event.NewICSSource(cfg.CalendarFiles...)
}

func runTUI(cmd *cobra.Command, args []string) error {
	source := newSource()

	model := ui.NewModel(cfg, source, source)
	p := tea.NewProgram(model, tea.WithAltScreen())

	model.SetSend(p.Send)

	// Re-render when a calendar file changes on disk.
	changes, err := source.Watch()
	if err != nil {
		log.Error("file watching unavailable", err)
	} else {
		go func() {
			for range changes {
				p.Send(ui.EventsChangedMsg{})
			}
		}()
		defer source.StopWatch()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}
