// Package logging routes logrus output away from the terminal, which the
// TUI owns, and forwards notable entries to the UI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// hookBuffer is how many entries may wait for the UI before new ones are dropped.
const hookBuffer = 64

// Entry is one log line forwarded to the UI.
type Entry struct {
	Level   log.Level
	Message string
	Time    time.Time
}

// Hook is a logrus hook that hands entries at or above its level to the UI.
type Hook struct {
	level log.Level
	ch    chan Entry
}

// NewHook creates a hook forwarding entries at level or more severe.
func NewHook(level log.Level) *Hook {
	return &Hook{level: level, ch: make(chan Entry, hookBuffer)}
}

// Levels implements log.Hook.
func (h *Hook) Levels() []log.Level {
	levels := make([]log.Level, 0, len(log.AllLevels))
	for _, l := range log.AllLevels {
		if l <= h.level {
			levels = append(levels, l)
		}
	}
	return levels
}

// Fire implements log.Hook. It never blocks the logging goroutine; when the
// UI falls behind the entry is dropped.
func (h *Hook) Fire(entry *log.Entry) error {
	select {
	case h.ch <- Entry{Level: entry.Level, Message: entry.Message, Time: entry.Time}:
	default:
	}
	return nil
}

// Entries is the channel the UI drains.
func (h *Hook) Entries() <-chan Entry {
	return h.ch
}

// Setup points the standard logger at path and installs a hook forwarding
// warnings and errors. The returned close function releases the file.
func Setup(path string, level log.Level) (*Hook, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	log.SetOutput(file)
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})

	hook := NewHook(log.WarnLevel)
	log.AddHook(hook)
	return hook, file.Close, nil
}
