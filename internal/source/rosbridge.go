package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum size of one inbound rosbridge message.
	maxMessageSize = 1 << 20

	// Outbound operations buffered before Send reports the link as stalled.
	sendBuffer = 256

	topicsService = "/rosapi/topics"
)

// rosbridgeMsg is the envelope of the rosbridge v2 JSON protocol.
type rosbridgeMsg struct {
	Op      string          `json:"op"`
	ID      string          `json:"id,omitempty"`
	Topic   string          `json:"topic,omitempty"`
	Type    string          `json:"type,omitempty"`
	Service string          `json:"service,omitempty"`
	Args    json.RawMessage `json:"args,omitempty"`
	Msg     json.RawMessage `json:"msg,omitempty"`
	Values  json.RawMessage `json:"values,omitempty"`
	Result  *bool           `json:"result,omitempty"`
}

type scalarMsg struct {
	Data *float64 `json:"data"`
}

type topicsReply struct {
	Topics []string `json:"topics"`
	Types  []string `json:"types"`
}

// Rosbridge reaches ROS topics through a rosbridge_server websocket.
type Rosbridge struct {
	url  string
	conn *websocket.Conn
	hub  *hub

	send chan []byte
	seq  atomic.Uint64

	mu      sync.Mutex
	pending map[string]chan rosbridgeMsg
	types   map[string]string
	closed  bool

	done      chan struct{}
	closeOnce sync.Once
}

// DialRosbridge connects to a rosbridge server such as ws://localhost:9090.
func DialRosbridge(ctx context.Context, url string) (*Rosbridge, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial rosbridge %s: %w", url, err)
	}

	rb := &Rosbridge{
		url:     url,
		conn:    conn,
		hub:     newHub(),
		send:    make(chan []byte, sendBuffer),
		pending: make(map[string]chan rosbridgeMsg),
		types:   make(map[string]string),
		done:    make(chan struct{}),
	}
	go rb.readPump()
	go rb.writePump()

	log.WithField("url", url).Info("rosbridge connected")
	return rb, nil
}

// Name identifies the source in the status bar.
func (rb *Rosbridge) Name() string {
	return "rosbridge " + rb.url
}

// Topics asks rosapi for every advertised topic and its type.
func (rb *Rosbridge) Topics(ctx context.Context, filter Filter) ([]Topic, error) {
	reply, err := rb.call(ctx, topicsService, nil)
	if err != nil {
		return nil, err
	}

	var tr topicsReply
	if err := json.Unmarshal(reply.Values, &tr); err != nil {
		return nil, fmt.Errorf("decode %s reply: %w", topicsService, err)
	}

	all := make([]Topic, 0, len(tr.Topics))
	rb.mu.Lock()
	for i, name := range tr.Topics {
		t := Topic{Name: name}
		if i < len(tr.Types) {
			t.Type = tr.Types[i]
		}
		rb.types[name] = t.Type
		all = append(all, t)
	}
	rb.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return filterTopics(all, filter), nil
}

// Subscribe binds h to topic. The first local subscriber of a topic sends
// the rosbridge subscribe operation; the last one to leave unsubscribes.
func (rb *Rosbridge) Subscribe(ctx context.Context, topic string, h Handler) (Subscription, error) {
	if rb.isClosed() {
		return nil, fmt.Errorf("%w: %s: %w", ErrSubscription, topic, ErrClosed)
	}

	sub, first := rb.hub.add(topic, h, rb.unsubscribeRemote)
	if !first {
		return sub, nil
	}

	rb.mu.Lock()
	typ := rb.types[topic]
	rb.mu.Unlock()

	op := rosbridgeMsg{
		Op:    "subscribe",
		ID:    "subscribe:" + topic,
		Topic: topic,
		Type:  typ,
	}
	if err := rb.enqueue(op); err != nil {
		sub.Unsubscribe()
		return nil, fmt.Errorf("%w: %s: %w", ErrSubscription, topic, err)
	}
	return sub, nil
}

func (rb *Rosbridge) unsubscribeRemote(topic string) {
	op := rosbridgeMsg{
		Op:    "unsubscribe",
		ID:    "subscribe:" + topic,
		Topic: topic,
	}
	if err := rb.enqueue(op); err != nil && !errors.Is(err, ErrClosed) {
		log.WithError(err).WithField("topic", topic).Warn("rosbridge unsubscribe failed")
	}
}

// Close terminates the connection and silences every subscription.
func (rb *Rosbridge) Close() error {
	var err error
	rb.closeOnce.Do(func() {
		rb.mu.Lock()
		rb.closed = true
		for id, ch := range rb.pending {
			close(ch)
			delete(rb.pending, id)
		}
		rb.mu.Unlock()

		close(rb.done)
		err = rb.conn.Close()
		rb.hub.closeAll()
	})
	return err
}

func (rb *Rosbridge) isClosed() bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.closed
}

func (rb *Rosbridge) call(ctx context.Context, service string, args json.RawMessage) (rosbridgeMsg, error) {
	id := "call_service:" + service + ":" + strconv.FormatUint(rb.seq.Add(1), 10)
	reply := make(chan rosbridgeMsg, 1)

	rb.mu.Lock()
	if rb.closed {
		rb.mu.Unlock()
		return rosbridgeMsg{}, ErrClosed
	}
	rb.pending[id] = reply
	rb.mu.Unlock()

	defer func() {
		rb.mu.Lock()
		delete(rb.pending, id)
		rb.mu.Unlock()
	}()

	if args == nil {
		args = json.RawMessage("{}")
	}
	if err := rb.enqueue(rosbridgeMsg{Op: "call_service", ID: id, Service: service, Args: args}); err != nil {
		return rosbridgeMsg{}, err
	}

	select {
	case <-ctx.Done():
		return rosbridgeMsg{}, fmt.Errorf("call %s: %w", service, ctx.Err())
	case msg, ok := <-reply:
		if !ok {
			return rosbridgeMsg{}, ErrClosed
		}
		if msg.Result != nil && !*msg.Result {
			return rosbridgeMsg{}, fmt.Errorf("call %s: service reported failure", service)
		}
		return msg, nil
	}
}

func (rb *Rosbridge) enqueue(op rosbridgeMsg) error {
	payload, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("encode %s: %w", op.Op, err)
	}
	select {
	case <-rb.done:
		return ErrClosed
	default:
	}
	select {
	case rb.send <- payload:
		return nil
	case <-rb.done:
		return ErrClosed
	default:
		return fmt.Errorf("rosbridge send buffer full")
	}
}

// readPump decodes inbound messages. All topic deliveries for this
// connection happen on this goroutine, in arrival order.
func (rb *Rosbridge) readPump() {
	defer rb.Close()

	rb.conn.SetReadLimit(maxMessageSize)
	_ = rb.conn.SetReadDeadline(time.Now().Add(pongWait))
	rb.conn.SetPongHandler(func(string) error {
		return rb.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := rb.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Warn("rosbridge connection lost")
			}
			return
		}
		rb.dispatch(data)
	}
}

func (rb *Rosbridge) dispatch(data []byte) {
	var msg rosbridgeMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		log.WithError(err).Debug("rosbridge: undecodable message")
		return
	}

	switch msg.Op {
	case "publish":
		var sm scalarMsg
		if err := json.Unmarshal(msg.Msg, &sm); err != nil || sm.Data == nil {
			log.WithField("topic", msg.Topic).Debug("rosbridge: non-scalar message dropped")
			return
		}
		rb.hub.publish(msg.Topic, *sm.Data)

	case "service_response":
		rb.mu.Lock()
		ch, ok := rb.pending[msg.ID]
		if ok {
			delete(rb.pending, msg.ID)
		}
		rb.mu.Unlock()
		if ok {
			ch <- msg
		}

	case "status":
		log.WithField("id", msg.ID).Warn("rosbridge status: " + string(msg.Msg))
	}
}

func (rb *Rosbridge) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-rb.done:
			return
		case payload := <-rb.send:
			_ = rb.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := rb.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.WithError(err).Warn("rosbridge write failed")
				rb.Close()
				return
			}
		case <-ticker.C:
			_ = rb.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := rb.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				rb.Close()
				return
			}
		}
	}
}
