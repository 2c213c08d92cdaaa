package app

import (
	"time"

	"circle-scope.klederson.com/internal/logging"
	"circle-scope.klederson.com/internal/source"
)

// TickMsg triggers a repaint.
type TickMsg time.Time

// TopicsMsg carries the result of a topic discovery.
type TopicsMsg struct {
	Topics []source.Topic
	Err    error
}

// LogMsg forwards a warning or error from the log hook.
type LogMsg logging.Entry
