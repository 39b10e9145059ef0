package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"inventory-billing/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// MockWriter is a mock implementation of MessageWriter.
type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func testBill() *model.Bill {
	return &model.Bill{
		ID:        uuid.MustParse("7b0f7a43-8ac1-4a55-b7a1-0f5ad1d1a001"),
		Total:     decimal.RequireFromString("25.00"),
		CreatedBy: "cashier",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Items: []model.BillItem{
			{ProductID: "P1", ProductName: "Tea", Quantity: 5, UnitPrice: decimal.RequireFromString("5"), LineTotal: decimal.RequireFromString("25")},
		},
	}
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisher_PublishBillCreated(t *testing.T) {
	writer := new(MockWriter)
	publisher := &kafkaPublisher{
		writer:     writer,
		propagator: propagation.TraceContext{},
		logger:     zerolog.Nop(),
	}

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}))

	var sent []kafka.Message
	writer.On("WriteMessages", ctx, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil)

	bill := testBill()
	require.NoError(t, publisher.PublishBillCreated(ctx, bill))

	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, bill.ID.String(), string(msg.Key))
	assert.Equal(t, BillCreatedType, headerValue(msg, "event-type"))
	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", headerValue(msg, "traceparent"))

	var event BillCreatedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, BillCreatedType, event.Type)
	assert.Equal(t, bill.ID, event.BillID)
	assert.True(t, bill.Total.Equal(event.Total))
	assert.Equal(t, "cashier", event.CreatedBy)
	require.Len(t, event.Items, 1)
	assert.Equal(t, "Tea", event.Items[0].ProductName)

	writer.AssertExpectations(t)
}

func TestKafkaPublisher_WriteFailure(t *testing.T) {
	writer := new(MockWriter)
	publisher := NewKafkaPublisherWithWriter(writer, zerolog.Nop())

	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := publisher.PublishBillCreated(context.Background(), testBill())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestKafkaPublisher_Close(t *testing.T) {
	writer := new(MockWriter)
	writer.On("Close").Return(nil)

	publisher := NewKafkaPublisherWithWriter(writer, zerolog.Nop())
	require.NoError(t, publisher.Close())

	writer.AssertExpectations(t)
}

func TestNopPublisher(t *testing.T) {
	publisher := NewNopPublisher(zerolog.Nop())

	assert.NoError(t, publisher.PublishBillCreated(context.Background(), testBill()))
	assert.NoError(t, publisher.Close())
}
