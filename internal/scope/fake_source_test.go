package scope

import (
	"context"
	"fmt"
	"sync"

	"circle-scope.klederson.com/internal/source"
)

// fakeSource delivers samples when the test calls push.
type fakeSource struct {
	mu     sync.Mutex
	subs   map[string][]*fakeSub
	failOn map[string]bool
}

type fakeSub struct {
	topic  string
	mu     sync.RWMutex
	closed bool
	h      source.Handler
	src    *fakeSource
	once   sync.Once
}

func newFakeSource() *fakeSource {
	return &fakeSource{subs: make(map[string][]*fakeSub), failOn: make(map[string]bool)}
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Topics(ctx context.Context, filter source.Filter) ([]source.Topic, error) {
	return []source.Topic{{Name: "/a", Type: "std_msgs/Float64"}, {Name: "/b", Type: "std_msgs/Float64"}}, nil
}

func (f *fakeSource) Subscribe(ctx context.Context, topic string, h source.Handler) (source.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[topic] {
		return nil, fmt.Errorf("%w: %s", source.ErrSubscription, topic)
	}
	s := &fakeSub{topic: topic, h: h, src: f}
	f.subs[topic] = append(f.subs[topic], s)
	return s, nil
}

func (f *fakeSource) Close() error { return nil }

func (f *fakeSource) push(topic string, v float64) {
	f.mu.Lock()
	subs := append([]*fakeSub(nil), f.subs[topic]...)
	f.mu.Unlock()
	for _, s := range subs {
		s.deliver(v)
	}
}

func (f *fakeSource) count(topic string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[topic])
}

func (s *fakeSub) deliver(v float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.closed {
		s.h(v)
	}
}

func (s *fakeSub) Topic() string { return s.topic }

func (s *fakeSub) Unsubscribe() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.src.mu.Lock()
		defer s.src.mu.Unlock()
		subs := s.src.subs[s.topic]
		for i, c := range subs {
			if c == s {
				s.src.subs[s.topic] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	})
}
