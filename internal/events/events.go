// Package events carries session events between the session controller and its
// consumers (WebSocket clients, commit sinks) over an in-process pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"

	"github.com/ayusman/signscribe/internal/sign"
)

// Topic is the single topic every session event is published on.
const Topic = "signscribe.session"

// Type names what happened to a session.
type Type string

const (
	TypeStart  Type = "start"
	TypeStop   Type = "stop"
	TypeReset  Type = "reset"
	TypeCommit Type = "commit"
)

// Event is a session lifecycle change or a committed gesture.
type Event struct {
	Type      Type   `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	// Gesture, Text and Seq are set for commits only.
	Gesture    sign.Label `json:"gesture,omitempty"`
	Text       string     `json:"text,omitempty"`
	Seq        int        `json:"seq,omitempty"`
	Transcript string     `json:"transcript"`
	At         time.Time  `json:"at"`
}

// Bus fans events out to any number of subscribers. Every subscriber sees
// events in publish order. Events published while nobody is subscribed are
// dropped.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger *zap.Logger
}

// NewBus creates an in-memory bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
			// Publish returns once every subscriber has queued the message,
			// so one publish cannot overtake the previous one.
			BlockPublishUntilSubscriberAck: true,
		}, newWatermillLogger(logger)),
		logger: logger,
	}
}

// Publish encodes e and hands it to every current subscriber. It waits for
// the handoff to each subscriber's queue, not for the event to be consumed.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("type", string(e.Type))

	if err := b.pubsub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", e.Type, err)
	}
	return nil
}

// Subscribe returns a channel of events that is closed when ctx is cancelled
// or the bus is closed. Each subscriber has its own unbounded queue, so a slow
// consumer delays only itself.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Event, error) {
	messages, err := b.pubsub.Subscribe(ctx, Topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan Event)
	go b.forward(ctx, messages, out)
	return out, nil
}

// forward acks each message as soon as it is queued and feeds the queue to out
// in arrival order. Events still queued when the bus closes are delivered
// before out is closed.
func (b *Bus) forward(ctx context.Context, messages <-chan *message.Message, out chan<- Event) {
	defer close(out)

	var queue []Event
	for messages != nil || len(queue) > 0 {
		var (
			send chan<- Event
			next Event
		)
		if len(queue) > 0 {
			send = out
			next = queue[0]
		}

		select {
		case msg, ok := <-messages:
			if !ok {
				messages = nil
				continue
			}
			var e Event
			if err := json.Unmarshal(msg.Payload, &e); err != nil {
				b.logger.Error("dropping undecodable event",
					zap.String("message_id", msg.UUID), zap.Error(err))
				msg.Ack()
				continue
			}
			queue = append(queue, e)
			msg.Ack()
		case send <- next:
			queue[0] = Event{}
			queue = queue[1:]
		case <-ctx.Done():
			return
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
