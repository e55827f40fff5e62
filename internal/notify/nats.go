package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rongwang/pokerclub-server/internal/models"
)

const (
	SubjectTransactionRecorded = "ledger.transaction.recorded"
	SubjectResetPerformed      = "ledger.reset.performed"
)

// Event is the JSON envelope published on NATS
type Event struct {
	Event      string      `json:"event"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes ledger events as JSON
type NATSPublisher struct {
	conn publisher
	now  func() time.Time
}

// ConnectNATS dials the NATS server. token may be empty.
func ConnectNATS(url, token string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("pokerclub ledger"),
	}

	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	return nats.Connect(url, opts...)
}

// NewNATSPublisher wraps an established connection
func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return newNATSPublisher(conn)
}

func newNATSPublisher(conn publisher) *NATSPublisher {
	return &NATSPublisher{conn: conn, now: func() time.Time { return time.Now().UTC() }}
}

func (p *NATSPublisher) TransactionRecorded(ctx context.Context, txn models.Transaction) error {
	return p.publish(SubjectTransactionRecorded, txn)
}

func (p *NATSPublisher) ResetPerformed(ctx context.Context, reset models.FinancialReset) error {
	return p.publish(SubjectResetPerformed, reset)
}

func (p *NATSPublisher) publish(subject string, data interface{}) error {
	body, err := json.Marshal(Event{Event: subject, OccurredAt: p.now(), Data: data})
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}

	if err := p.conn.Publish(subject, body); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	return nil
}
