package source

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"tinygo.org/x/bluetooth"
)

const (
	bleTopicPrefix = "/ble/"
	bleTopicSuffix = "/rssi"
	bleTopicType   = "ble/RSSI"
)

// BLE publishes the RSSI of every advertising Bluetooth LE device as a
// scalar topic named /ble/<MAC>/rssi.
type BLE struct {
	adapter *bluetooth.Adapter
	name    string
	hub     *hub

	mu      sync.Mutex
	seen    map[string]struct{}
	running bool
}

// NewBLE creates a BLE source on the default adapter. adapterName is only
// used for display.
func NewBLE(adapterName string) *BLE {
	return &BLE{
		adapter: bluetooth.DefaultAdapter,
		name:    adapterName,
		hub:     newHub(),
		seen:    make(map[string]struct{}),
	}
}

// Name identifies the source in the status bar.
func (s *BLE) Name() string {
	if s.name == "" {
		return "ble"
	}
	return "ble " + s.name
}

// Start enables the adapter and begins scanning in a goroutine.
func (s *BLE) Start(ctx context.Context) error {
	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("failed to enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	go func() {
		err := s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			s.observe(result.Address.String(), result.RSSI)
		})
		if err != nil {
			log.WithError(err).Warn("BLE scan stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	log.Info("BLE source started")
	return nil
}

func (s *BLE) observe(mac string, rssi int16) {
	topic := BLETopic(mac)

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	if _, ok := s.seen[topic]; !ok {
		s.seen[topic] = struct{}{}
		log.WithField("topic", topic).Debug("BLE device discovered")
	}
	s.mu.Unlock()

	s.hub.publish(topic, float64(rssi))
}

// Topics lists every device seen so far, sorted by topic name.
func (s *BLE) Topics(ctx context.Context, filter Filter) ([]Topic, error) {
	s.mu.Lock()
	all := make([]Topic, 0, len(s.seen))
	for topic := range s.seen {
		all = append(all, Topic{Name: topic, Type: bleTopicType})
	}
	s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return filterTopics(all, filter), nil
}

// Subscribe binds h to a device topic. Devices that have not advertised yet
// are accepted; samples start once they are seen.
func (s *BLE) Subscribe(ctx context.Context, topic string, h Handler) (Subscription, error) {
	if _, ok := ParseBLETopic(topic); !ok {
		return nil, fmt.Errorf("%w: %s: %w", ErrSubscription, topic, ErrUnknownTopic)
	}
	sub, _ := s.hub.add(topic, h, nil)
	return sub, nil
}

// Close stops scanning and silences every subscription.
func (s *BLE) Close() error {
	s.mu.Lock()
	wasRunning := s.running
	s.running = false
	s.mu.Unlock()

	s.hub.closeAll()
	if wasRunning {
		return s.adapter.StopScan()
	}
	return nil
}

// BLETopic returns the topic name for a device address.
func BLETopic(mac string) string {
	return bleTopicPrefix + strings.ToUpper(mac) + bleTopicSuffix
}

// ParseBLETopic extracts the device address from a BLE topic name.
func ParseBLETopic(topic string) (string, bool) {
	if !strings.HasPrefix(topic, bleTopicPrefix) || !strings.HasSuffix(topic, bleTopicSuffix) {
		return "", false
	}
	mac := strings.TrimSuffix(strings.TrimPrefix(topic, bleTopicPrefix), bleTopicSuffix)
	if !isValidMAC(mac) {
		return "", false
	}
	return mac, true
}

func isValidMAC(mac string) bool {
	if len(mac) != 17 {
		return false
	}
	for i, c := range mac {
		if (i+1)%3 == 0 {
			if c != ':' {
				return false
			}
		} else {
			if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')) {
				return false
			}
		}
	}
	return true
}
