// Package bus carries typed realtime envelopes over NATS. The
// analytics server publishes, the notify bridge subscribes and fans out
// to push-channel clients.
package bus

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"vibracore/pkg/realtime"
)

const subjectPrefix = "events."

// SubjectFor maps an event type to its NATS subject.
func SubjectFor(t realtime.EventType) string {
	return subjectPrefix + string(t)
}

type Publisher struct {
	Conn *nats.Conn
}

func NewPublisher(url string, opts ...nats.Option) (*Publisher, error) {
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &Publisher{Conn: conn}, nil
}

func (p *Publisher) Close() {
	if p.Conn != nil {
		p.Conn.Close()
	}
}

// Publish sends one envelope on the subject derived from its type.
func (p *Publisher) Publish(env realtime.Envelope) error {
	if _, ok := realtime.ParseEventType(string(env.Type)); !ok {
		return fmt.Errorf("bus: unknown event type %q", env.Type)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return p.Conn.Publish(SubjectFor(env.Type), data)
}

type Subscriber struct {
	Conn *nats.Conn
}

func NewSubscriber(url string, opts ...nats.Option) (*Subscriber, error) {
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &Subscriber{Conn: conn}, nil
}

func (s *Subscriber) Close() {
	if s.Conn != nil {
		_ = s.Conn.Drain()
		s.Conn.Close()
	}
}

// SubscribeAll delivers every event envelope to the handler. Messages
// that do not decode are dropped.
func (s *Subscriber) SubscribeAll(handler func(realtime.Envelope)) (*nats.Subscription, error) {
	return s.Conn.Subscribe(subjectPrefix+">", func(msg *nats.Msg) {
		var env realtime.Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			return
		}
		handler(env)
	})
}

// Subscribe delivers envelopes of a single event type to the handler.
func (s *Subscriber) Subscribe(t realtime.EventType, handler func(realtime.Envelope)) (*nats.Subscription, error) {
	return s.Conn.Subscribe(SubjectFor(t), func(msg *nats.Msg) {
		var env realtime.Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			return
		}
		handler(env)
	})
}
