// Package service publishes domain events to RabbitMQ. Publish errors
// are logged and swallowed so a broker outage never fails the request
// that triggered the event.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MarcoBenedictus/GameSuite/internal/model"
	q "github.com/MarcoBenedictus/GameSuite/internal/queue"
)

// QueuePublisher publishes reservation events. A fresh connection is
// dialed per publish; confirmations are rare enough that pooling is not
// worth the reconnect bookkeeping.
type QueuePublisher struct {
	url string
}

func NewQueuePublisher(url string) *QueuePublisher {
	return &QueuePublisher{url: url}
}

// PublishReservationConfirmed emits a ReservationConfirmedEvent to the
// reservation.confirmed queue. Messages are marked persistent. Any
// failure is logged and otherwise ignored.
func (p *QueuePublisher) PublishReservationConfirmed(ctx context.Context, res model.Reservation, user model.User, total int) {
	ev := q.ReservationConfirmedEvent{
		ReservationID: res.ID,
		UserID:        user.ID,
		Username:      res.Username,
		Floor:         res.Floor,
		Room:          res.Room,
		DurationHours: res.DurationHours,
		Membership:    user.Membership,
		PaymentMethod: res.PaymentMethod,
		TotalAmount:   total,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if res.Date != nil {
		ev.Date = res.Date.Format("2006-01-02")
	}
	if res.StartTime != nil {
		ev.StartTime = res.StartTime.Format("15:04")
	}
	if res.EndTime != nil {
		ev.EndTime = res.EndTime.Format("15:04")
	}

	if err := p.publish(ctx, ev); err != nil {
		log.Printf("rabbitmq: publish reservation.confirmed failed: %v", err)
	}
}

func (p *QueuePublisher) publish(ctx context.Context, ev q.ReservationConfirmedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare("reservation.confirmed", true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",                      // default exchange
		"reservation.confirmed", // routing key = queue name
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
