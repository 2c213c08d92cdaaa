package source

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var mockJointNames = []string{"ffj3", "ffj4", "mfj3", "rfj3", "lfj4", "thj2", "thj5", "wrj1", "wrj2"}

type mockTopic struct {
	topic     Topic
	offset    float64
	amplitude float64
	freq      float64 // Hz
	phase     float64
	noise     float64
}

// Mock generates sinusoidal joint signals for demo mode.
type Mock struct {
	interval time.Duration
	topics   map[string]mockTopic
	hub      *hub

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	done    chan struct{}
}

// NewMock creates a demo source with joints position, effort and name topics,
// sampled rate times per second.
func NewMock(joints, rate int) *Mock {
	if joints <= 0 || joints > len(mockJointNames) {
		joints = len(mockJointNames)
	}
	if rate <= 0 {
		rate = 100
	}

	topics := make(map[string]mockTopic, joints*3)
	for _, name := range mockJointNames[:joints] {
		base := "/sh_" + name
		topics[base+"_position"] = mockTopic{
			topic:     Topic{Name: base + "_position", Type: "std_msgs/Float64"},
			amplitude: 0.02 + rand.Float64()*0.04, // ±100..300 fixed-point units
			freq:      0.2 + rand.Float64()*0.8,
			phase:     rand.Float64() * 2 * math.Pi,
			noise:     0.001,
		}
		topics[base+"_effort"] = mockTopic{
			topic:     Topic{Name: base + "_effort", Type: "std_msgs/Float64"},
			offset:    -0.01 + rand.Float64()*0.02,
			amplitude: 0.01 + rand.Float64()*0.02,
			freq:      1 + rand.Float64()*2,
			phase:     rand.Float64() * 2 * math.Pi,
			noise:     0.003,
		}
		topics[base+"_name"] = mockTopic{
			topic: Topic{Name: base + "_name", Type: "std_msgs/String"},
		}
	}

	return &Mock{
		interval: time.Second / time.Duration(rate),
		topics:   topics,
		hub:      newHub(),
	}
}

// Name identifies the source in the status bar.
func (s *Mock) Name() string {
	return "demo"
}

// Start begins emitting samples until ctx is cancelled or Close is called.
func (s *Mock) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.done = make(chan struct{})

	go s.loop(ctx, s.done)
	log.WithField("topics", len(s.topics)).Info("demo source started")
	return nil
}

func (s *Mock) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.emit(now.Sub(start).Seconds())
		}
	}
}

func (s *Mock) emit(t float64) {
	for _, name := range s.hub.active() {
		mt, ok := s.topics[name]
		if !ok || mt.topic.Type != "std_msgs/Float64" {
			continue
		}
		s.hub.publish(name, mt.sample(t))
	}
}

func (mt mockTopic) sample(t float64) float64 {
	v := mt.offset + mt.amplitude*math.Sin(2*math.Pi*mt.freq*t+mt.phase)
	return v + (rand.Float64()-0.5)*mt.noise
}

// Topics lists the demo topics that pass filter, sorted by name.
func (s *Mock) Topics(ctx context.Context, filter Filter) ([]Topic, error) {
	all := make([]Topic, 0, len(s.topics))
	for _, mt := range s.topics {
		all = append(all, mt.topic)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return filterTopics(all, filter), nil
}

// Subscribe binds h to a numeric demo topic.
func (s *Mock) Subscribe(ctx context.Context, topic string, h Handler) (Subscription, error) {
	mt, ok := s.topics[topic]
	if !ok {
		return nil, fmt.Errorf("%w: %s: %w", ErrSubscription, topic, ErrUnknownTopic)
	}
	if mt.topic.Type != "std_msgs/Float64" {
		return nil, fmt.Errorf("%w: %s: type %s is not numeric", ErrSubscription, topic, mt.topic.Type)
	}
	sub, _ := s.hub.add(topic, h, nil)
	return sub, nil
}

// Close stops the generator and silences every subscription.
func (s *Mock) Close() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.running = false
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	s.hub.closeAll()
	return nil
}
