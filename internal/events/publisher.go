// Package events pushes transaction lifecycle events onto a Redis list for
// external consumers (the SPA's live refresh, notification jobs). Publishing
// is best-effort: the ledger itself never depends on it, and a missing Redis
// connection disables it entirely.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/benjamin-thomas/pfm2-sub000/internal/models"
)

const DefaultQueue = "pfm:transaction_events"

type Event struct {
	EventID       string              `json:"eventId"`
	Type          string              `json:"type"` // created, updated or deleted
	TransactionID int                 `json:"transactionId"`
	Transaction   *models.Transaction `json:"transaction,omitempty"`
	At            time.Time           `json:"at"`
}

type Publisher struct {
	rdb   *redis.Client
	queue string
}

// NewPublisher wraps rdb. A nil client yields a no-op publisher, mirroring
// how the server keeps running when Redis is unreachable at startup.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb, queue: DefaultQueue}
}

func (p *Publisher) TransactionCreated(ctx context.Context, tx *models.Transaction) error {
	return p.publish(ctx, Event{Type: "created", TransactionID: tx.ID, Transaction: tx})
}

func (p *Publisher) TransactionUpdated(ctx context.Context, tx *models.Transaction) error {
	return p.publish(ctx, Event{Type: "updated", TransactionID: tx.ID, Transaction: tx})
}

func (p *Publisher) TransactionDeleted(ctx context.Context, id int) error {
	return p.publish(ctx, Event{Type: "deleted", TransactionID: id})
}

func (p *Publisher) publish(ctx context.Context, evt Event) error {
	if p == nil || p.rdb == nil {
		return nil
	}

	evt.EventID = uuid.NewString()
	evt.At = time.Now().UTC()

	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.rdb.RPush(ctx, p.queue, string(data)).Err()
}
