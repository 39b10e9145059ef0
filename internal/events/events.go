// Package events publishes domain events produced by completed sales.
package events

import (
	"context"
	"time"

	"inventory-billing/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// BillCreatedType names the event emitted after a sale commits.
const BillCreatedType = "bill.created"

// Publisher delivers domain events to downstream consumers.
type Publisher interface {
	// PublishBillCreated announces a committed bill.
	PublishBillCreated(ctx context.Context, bill *model.Bill) error

	// Close flushes pending events and releases resources.
	Close() error
}

// BillCreatedEvent is the payload of a bill.created message.
type BillCreatedEvent struct {
	Type      string           `json:"type"`
	BillID    uuid.UUID        `json:"billId"`
	Total     decimal.Decimal  `json:"total"`
	CreatedBy string           `json:"createdBy"`
	CreatedAt time.Time        `json:"createdAt"`
	Items     []model.BillItem `json:"items"`
}

// NewBillCreatedEvent builds the event payload for bill.
func NewBillCreatedEvent(bill *model.Bill) BillCreatedEvent {
	return BillCreatedEvent{
		Type:      BillCreatedType,
		BillID:    bill.ID,
		Total:     bill.Total,
		CreatedBy: bill.CreatedBy,
		CreatedAt: bill.CreatedAt,
		Items:     bill.Items,
	}
}

type nopPublisher struct {
	logger zerolog.Logger
}

// NewNopPublisher returns a Publisher that drops every event.
func NewNopPublisher(logger zerolog.Logger) Publisher {
	return &nopPublisher{logger: logger.With().Str("component", "events").Logger()}
}

func (p *nopPublisher) PublishBillCreated(ctx context.Context, bill *model.Bill) error {
	p.logger.Debug().Str("bill_id", bill.ID.String()).Msg("event publishing disabled, dropping bill.created")
	return nil
}

func (p *nopPublisher) Close() error { return nil }
