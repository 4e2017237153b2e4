package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/homebuddy/homebuddy-api/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        uuid.NewString(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopEventBus drops every event. Used when NATS_URL is unset.
type NoopEventBus struct{}

func NewNoopEventBus() *NoopEventBus { return &NoopEventBus{} }

func (NoopEventBus) Publish(context.Context, string, interface{}) error { return nil }
func (NoopEventBus) Subscribe(string, func(msg *Message)) error         { return nil }
func (NoopEventBus) Close() error                                       { return nil }

// Event subjects
const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	MessageReceived      = "message.received"
	AdminCreated         = "admin.created"
)

// Event payloads
type BookingCreatedEvent struct {
	BookingID         int64     `json:"booking_id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Service           string    `json:"service"`
	PreferredDateTime time.Time `json:"preferred_date_time"`
	CreatedAt         time.Time `json:"created_at"`
}

type BookingStatusChangedEvent struct {
	BookingID int64     `json:"booking_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
}

type MessageReceivedEvent struct {
	MessageID int64     `json:"message_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AdminCreatedEvent struct {
	AdminID   int64     `json:"admin_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
