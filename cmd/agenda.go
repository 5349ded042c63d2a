package cmd

import (
	"fmt"
	"time"

	"github.com/supercalendrier/supercal/internal/event"
	"github.com/spf13/cobra"
)

var agendaDays int

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "List upcoming events and exit",
	Long:  `List events for the coming days in a simple text format and exit.`,
	RunE:  runAgenda,
}

func init() {
	agendaCmd.Flags().IntVarP(&agendaDays, "days", "d", 1, "Number of days to list")
	rootCmd.AddCommand(agendaCmd)
}

func runAgenda(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		initConfig()
	}
	if agendaDays < 1 {
		agendaDays = 1
	}

	source := newSource()

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, agendaDays)

	events, err := source.Events(start, end)
	if err != nil {
		return fmt.Errorf("error getting events: %w", err)
	}

	for day := 0; day < agendaDays; day++ {
		date := start.AddDate(0, 0, day)
		fmt.Printf("Events for %s:\n", date.Format(cfg.DateFormat))

		any := false
		for _, ev := range events {
			if !ev.OnDay(date) {
				continue
			}
			any = true
			printEvent(ev)
		}
		if !any {
			fmt.Println("  No events found.")
		}
	}

	return nil
}

func printEvent(ev event.Event) {
	timeStr := "All day"
	if ev.Time != nil {
		timeStr = ev.Time.Format(cfg.TimeFormat)
	}

	priorityStr := ""
	switch ev.Priority {
	case event.PriorityHigh:
		priorityStr = "!!!"
	case event.PriorityMedium:
		priorityStr = "!!"
	case event.PriorityLow:
		priorityStr = "!"
	}

	fmt.Printf("  %s - %s%s\n", timeStr, ev.Summary, priorityStr)
	if ev.Location != "" {
		fmt.Printf("    Location: %s\n", ev.Location)
	}
	if len(ev.Tags) > 0 {
		fmt.Printf("    Tags: %v\n", ev.Tags)
	}
}
