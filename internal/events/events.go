// Package events publishes booking lifecycle notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"tourbooking/internal/domain"
)

// Booking event types.
const (
	BookingCreated        = "booking.created"
	BookingPendingPayment = "booking.pending_payment"
	BookingConfirmed      = "booking.confirmed"
	BookingCancelled      = "booking.cancelled"
	BookingCompleted      = "booking.completed"
)

// BookingEvent is the message written for every booking status change.
type BookingEvent struct {
	Type        string               `json:"type"`
	BookingID   string               `json:"bookingId"`
	Reference   string               `json:"reference"`
	TourID      string               `json:"tourId"`
	Status      domain.BookingStatus `json:"status"`
	TotalRetail int64                `json:"totalRetail"`
	Currency    string               `json:"currency"`
	OccurredAt  time.Time            `json:"occurredAt"`
}

// TypeFor maps a booking status to its event type.
func TypeFor(status domain.BookingStatus) string {
	switch status {
	case domain.BookingPendingPayment:
		return BookingPendingPayment
	case domain.BookingConfirmed:
		return BookingConfirmed
	case domain.BookingCancelled:
		return BookingCancelled
	case domain.BookingCompleted:
		return BookingCompleted
	default:
		return BookingCreated
	}
}

// FromBooking builds the event for the booking's current status.
func FromBooking(b *domain.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:        TypeFor(b.Status),
		BookingID:   b.ID,
		Reference:   b.Reference,
		TourID:      b.TourID,
		Status:      b.Status,
		TotalRetail: b.TotalRetail,
		Currency:    b.Currency,
		OccurredAt:  at.UTC(),
	}
}

// Publisher delivers booking events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BookingEvent) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by booking id.
type KafkaPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

// Writer settings for the request path: a single event is flushed without
// waiting for a batch to fill, and a missing broker fails fast.
const (
	writerBatchTimeout = 10 * time.Millisecond
	writerWriteTimeout = 2 * time.Second
	writerMaxAttempts  = 2
)

// NewKafkaPublisher builds a publisher with a long-lived kafka writer.
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	return newKafkaPublisher(newWriter(brokers, topic), logger)
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           writerBatchTimeout,
		WriteTimeout:           writerWriteTimeout,
		MaxAttempts:            writerMaxAttempts,
	}
}

func newKafkaPublisher(w messageWriter, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{writer: w, logger: logger.Named("events")}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.BookingID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("write booking event: %w", err)
	}
	p.logger.Debug("booking event published", zap.String("type", event.Type), zap.String("booking_id", event.BookingID))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
