package source

import (
	"sync"
)

// gate wraps a handler so that closing it waits out an in-flight call.
type gate struct {
	mu     sync.RWMutex
	closed bool
	h      Handler
}

func (g *gate) deliver(v float64) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed {
		return
	}
	g.h(v)
}

func (g *gate) close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}

type subscription struct {
	topic string
	g     *gate
	once  sync.Once
	done  func()
}

func (s *subscription) Topic() string {
	return s.topic
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.g.close()
		if s.done != nil {
			s.done()
		}
	})
}

// hub fans samples for a topic out to its subscribers.
type hub struct {
	mu   sync.RWMutex
	subs map[string][]*gate
}

func newHub() *hub {
	return &hub{subs: make(map[string][]*gate)}
}

// add registers h for topic and reports whether it is the topic's first subscriber.
// onEmpty runs after the last subscriber for the topic leaves.
func (hb *hub) add(topic string, h Handler, onEmpty func(topic string)) (*subscription, bool) {
	g := &gate{h: h}

	hb.mu.Lock()
	first := len(hb.subs[topic]) == 0
	hb.subs[topic] = append(hb.subs[topic], g)
	hb.mu.Unlock()

	sub := &subscription{topic: topic, g: g}
	sub.done = func() {
		if hb.remove(topic, g) && onEmpty != nil {
			onEmpty(topic)
		}
	}
	return sub, first
}

// remove drops g and reports whether the topic has no subscribers left.
func (hb *hub) remove(topic string, g *gate) bool {
	hb.mu.Lock()
	defer hb.mu.Unlock()

	gates := hb.subs[topic]
	for i, candidate := range gates {
		if candidate == g {
			gates = append(gates[:i:i], gates[i+1:]...)
			break
		}
	}
	if len(gates) == 0 {
		delete(hb.subs, topic)
		return true
	}
	hb.subs[topic] = gates
	return false
}

// publish delivers v to every subscriber of topic.
func (hb *hub) publish(topic string, v float64) {
	hb.mu.RLock()
	gates := hb.subs[topic]
	hb.mu.RUnlock()

	for _, g := range gates {
		g.deliver(v)
	}
}

// active returns the topics that currently have subscribers.
func (hb *hub) active() []string {
	hb.mu.RLock()
	defer hb.mu.RUnlock()
	out := make([]string, 0, len(hb.subs))
	for topic := range hb.subs {
		out = append(out, topic)
	}
	return out
}

// closeAll shuts every gate.
func (hb *hub) closeAll() {
	hb.mu.Lock()
	all := hb.subs
	hb.subs = make(map[string][]*gate)
	hb.mu.Unlock()

	for _, gates := range all {
		for _, g := range gates {
			g.close()
		}
	}
}
