package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/supercalendrier/supercal/internal/event"
	"github.com/supercalendrier/supercal/internal/log"
	"github.com/supercalendrier/supercal/internal/sched"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// notifyHorizon is how far ahead the daemon schedules reminders. Events
// beyond it are picked up by a later re-sync.
const notifyHorizon = 7 * 24 * time.Hour

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Run the reminder daemon",
	Long: `Run a foreground daemon that schedules reminders for upcoming events
and delivers them through the configured notifier command. Reminders are
re-synced on the configured cron schedule and whenever a calendar file
changes.`,
	RunE: runNotify,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		initConfig()
	}
	if len(cfg.LeadTimes) == 0 {
		return fmt.Errorf("no lead times configured")
	}

	source := newSource()
	scheduler := sched.New(sched.SystemClock(), func(ev event.Event, lead string) {
		deliver(ev, lead)
	})
	defer scheduler.Disable()

	resync := func() {
		if err := syncReminders(scheduler, source); err != nil {
			log.Error("reminder sync failed", err)
		}
	}
	resync()

	c := cron.New()
	if _, err := c.AddFunc(cfg.RefreshCron, resync); err != nil {
		return fmt.Errorf("invalid refresh_cron %q: %w", cfg.RefreshCron, err)
	}
	c.Start()
	defer c.Stop()

	changes, err := source.Watch()
	if err != nil {
		log.Error("file watching unavailable", err)
	} else {
		go func() {
			for ch := range changes {
				log.Debug("calendar changed", "path", ch.Path)
				resync()
			}
		}()
		defer source.StopWatch()
	}

	log.Info("reminder daemon running",
		"files", len(cfg.CalendarFiles), "cron", cfg.RefreshCron)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutting down", "signal", sig)

	return nil
}

// syncReminders replaces the scheduled reminders with the current contents
// of the calendar files.
func syncReminders(scheduler *sched.Scheduler, source event.Source) error {
	now := time.Now()
	events, err := source.Events(now.AddDate(0, 0, -1), now.Add(notifyHorizon))
	if err != nil {
		return err
	}

	scheduler.CancelAll()
	scheduled := 0
	for _, ev := range events {
		scheduler.Schedule(ev, cfg.LeadTimes)
		if scheduler.PendingCount(ev.ID) > 0 {
			scheduled++
		}
	}
	log.Info("reminders synced", "events", len(events), "scheduled", scheduled)
	return nil
}

// deliver hands a fired reminder to the configured notifier command, or
// prints it when none is configured. The notifier receives the lead label
// and summary as arguments and the event body on stdin.
func deliver(ev event.Event, lead string) {
	when := ev.Start().Format(cfg.TimeFormat)
	text := fmt.Sprintf("In %s: %s (%s)", lead, ev.Summary, when)

	if cfg.Notifier == "" {
		fmt.Println(text)
		return
	}

	c := exec.Command(cfg.Notifier, lead, ev.Summary)
	if ev.Body != "" {
		c.Stdin = strings.NewReader(ev.Body)
	}
	if err := c.Run(); err != nil {
		log.Error("notifier failed", err, "command", cfg.Notifier)
	}
}
