// Package source discovers scalar topics and delivers their samples.
//
// Every Source hands samples to a Handler on its own delivery goroutine.
// Unsubscribe blocks until an in-flight delivery has returned, so once it
// comes back the handler is never called again.
package source

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrSubscription wraps any failure to bind a topic.
	ErrSubscription = errors.New("subscription failed")
	// ErrUnknownTopic is returned when subscribing to a topic the source does not offer.
	ErrUnknownTopic = errors.New("unknown topic")
	// ErrClosed is returned by sources that have been shut down.
	ErrClosed = errors.New("source closed")
)

// Topic is one discoverable stream.
type Topic struct {
	Name string
	Type string
}

// Filter narrows discovery by message type and name substring.
// Empty fields match everything.
type Filter struct {
	Type     string
	Contains string
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Topic) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Contains != "" && !strings.Contains(t.Name, f.Contains) {
		return false
	}
	return true
}

// Handler receives one sample.
type Handler func(value float64)

// Subscription is a live binding to a topic.
type Subscription interface {
	Topic() string
	// Unsubscribe stops delivery. It is idempotent and returns only after
	// any delivery already in progress has completed.
	Unsubscribe()
}

// Source is a topic discovery and subscription service.
type Source interface {
	Name() string
	Topics(ctx context.Context, filter Filter) ([]Topic, error)
	Subscribe(ctx context.Context, topic string, h Handler) (Subscription, error)
	Close() error
}

func filterTopics(all []Topic, filter Filter) []Topic {
	out := make([]Topic, 0, len(all))
	for _, t := range all {
		if filter.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
