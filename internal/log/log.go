// Package log is a small leveled logger writing key=value lines to stderr.
// The TUI keeps stderr quiet; this is used by the CLI commands and the event
// sources.
package log

import (
	"fmt"
	stdlog "log"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

var (
	mu       sync.Mutex
	logger   = stdlog.New(os.Stderr, "", stdlog.LstdFlags)
	minLevel = LevelInfo
)

// SetLevel sets the minimum level that will be written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w *os.File) {
	mu.Lock()
	defer mu.Unlock()
	logger = stdlog.New(w, "", stdlog.LstdFlags)
}

func Debug(msg string, kv ...any) { write(LevelDebug, "DEBUG", msg, kv) }

func Info(msg string, kv ...any) { write(LevelInfo, "INFO", msg, kv) }

func Error(msg string, err error, kv ...any) {
	write(LevelError, "ERROR", msg, append([]any{"err", err}, kv...))
}

func write(level Level, label, msg string, kv []any) {
	mu.Lock()
	defer mu.Unlock()
	if level < minLevel {
		return
	}

	var b strings.Builder
	b.WriteString("[" + label + "] " + msg)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		b.WriteString(" " + key + "=" + fmt.Sprint(kv[i+1]))
	}
	logger.Println(b.String())
}
