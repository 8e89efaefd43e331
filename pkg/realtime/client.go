package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// State is the connection lifecycle position of a Client.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Handler receives decoded events for one topic. Dispatch is synchronous
// on the client's read loop; long work belongs in the handler's own
// goroutine.
type Handler func(Event)

// Option configures a Client.
type Option func(*Client)

// WithTransport substitutes the connection transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithRetryPolicy overrides the reconnection budget.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithErrorObserver registers a callback for connection and decode
// failures. The observer may be invoked from the read loop or a retry
// timer; it must not block.
func WithErrorObserver(fn func(error)) Option {
	return func(c *Client) { c.onError = fn }
}

// WithDialTimeout bounds each connection attempt.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) { c.dialTimeout = d }
}

// Client maintains one persistent push connection, decodes inbound
// envelopes, dispatches them to per-topic handlers, and transparently
// reconnects on disconnect within the retry budget.
//
// At most one handler is active per topic; Subscribe replaces. All
// methods are safe for concurrent use.
type Client struct {
	url         string
	transport   Transport
	policy      RetryPolicy
	onError     func(error)
	dialTimeout time.Duration

	mu       sync.Mutex
	state    State
	conn     Conn
	epoch    uint64
	attempts int
	handlers map[EventType]Handler
	retry    *time.Timer
}

// NewClient builds a client for the given push-channel URL. The client
// does not connect until Connect is called.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:         url,
		transport:   NewWebSocketTransport(),
		policy:      DefaultRetryPolicy(),
		dialTimeout: 10 * time.Second,
		handlers:    map[EventType]Handler{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect starts a connection attempt in the background and resets the
// reconnect budget. It is idempotent while a connection is in flight or
// established, and never returns an error: failures reach the error
// observer and drive the reconnection state machine.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.epoch++
	epoch := c.epoch
	c.attempts = 0
	c.stopRetryLocked()
	c.state = StateConnecting
	c.mu.Unlock()
	go c.dial(epoch, 0)
}

// Disconnect closes the connection, cancels any pending reconnect, and
// transitions to Disconnected. A retry timer that has already fired is
// invalidated by the epoch bump and returns without dialing.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.epoch++
	c.attempts = 0
	c.stopRetryLocked()
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// State reports the current lifecycle position.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers the handler for a topic, replacing any previous
// one. Topics unknown to this client version are ignored. Subscribing
// while disconnected is legal and takes effect on the next dispatch.
func (c *Client) Subscribe(topic EventType, h Handler) {
	t, ok := ParseEventType(string(topic))
	if !ok || h == nil {
		return
	}
	c.mu.Lock()
	c.handlers[t] = h
	c.mu.Unlock()
}

// Unsubscribe removes the handler for a topic, if any.
func (c *Client) Unsubscribe(topic EventType) {
	t, ok := ParseEventType(string(topic))
	if !ok {
		return
	}
	c.mu.Lock()
	delete(c.handlers, t)
	c.mu.Unlock()
}

// Send writes an envelope to the channel. Delivery is at-most-effort:
// while not connected Send is a no-op and returns nil.
func (c *Client) Send(env Envelope) error {
	c.mu.Lock()
	conn := c.conn
	connected := c.state == StateConnected
	c.mu.Unlock()
	if !connected || conn == nil {
		return nil
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return conn.WriteMessage(data)
}

func (c *Client) dial(epoch uint64, attempt int) {
	ctx, cancel := context.WithTimeout(context.Background(), c.dialTimeout)
	defer cancel()
	conn, err := c.transport.Dial(ctx, c.url)

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		c.state = StateDisconnected
		c.mu.Unlock()
		c.report(&ConnectionError{Attempt: attempt, Err: err})
		c.scheduleReconnect(epoch)
		return
	}
	c.conn = conn
	c.state = StateConnected
	c.attempts = 0
	c.mu.Unlock()
	go c.readLoop(epoch, conn)
}

func (c *Client) readLoop(epoch uint64, conn Conn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			_ = conn.Close()
			c.mu.Lock()
			if epoch != c.epoch {
				c.mu.Unlock()
				return
			}
			c.conn = nil
			c.state = StateDisconnected
			c.mu.Unlock()
			c.report(&ConnectionError{Err: err})
			c.scheduleReconnect(epoch)
			return
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	evt, known, err := DecodeEnvelope(data)
	if err != nil {
		c.report(err)
		return
	}
	if !known {
		return
	}
	c.mu.Lock()
	h := c.handlers[evt.Type]
	c.mu.Unlock()
	if h != nil {
		h(evt)
	}
}

// scheduleReconnect arms the next retry timer. No attempt is scheduled
// while another is in flight, and the budget is consumed only by
// automatic attempts: an explicit Connect resets it.
func (c *Client) scheduleReconnect(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch || c.state != StateDisconnected {
		return
	}
	if c.attempts >= c.policy.MaxAttempts {
		return
	}
	c.attempts++
	attempt := c.attempts
	c.state = StateConnecting
	c.retry = time.AfterFunc(c.policy.Delay(attempt), func() {
		c.mu.Lock()
		if epoch != c.epoch {
			c.mu.Unlock()
			return
		}
		c.retry = nil
		c.mu.Unlock()
		c.dial(epoch, attempt)
	})
}

func (c *Client) stopRetryLocked() {
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
}

func (c *Client) report(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}
