package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"production-planner/internal/domain"
)

// Consume drains pedido change events until ctx is done or the broker closes
// the delivery channel. Each well-formed event invalidates the caches.
func (s *PlanningService) Consume(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	s.log.Info("consumer_started", nil)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("graceful_shutdown", nil)
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			err := s.processOne(d)
			switch {
			case err == nil:
				_ = d.Ack(false)
			case errors.Is(err, ErrDLQ):
				s.log.Warn("event_rejected", map[string]any{"message_id": d.MessageId, "error": err.Error()})
				_ = d.Nack(false, false)
			default:
				_ = d.Nack(false, true)
			}
		}
	}
}

func (s *PlanningService) processOne(d amqp.Delivery) error {
	var ev domain.PedidoChangedEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		return errors.Join(ErrDLQ, err)
	}
	if strings.TrimSpace(ev.Action) == "" {
		return errors.Join(ErrDLQ, errors.New("event without action"))
	}
	s.Invalidate("pedido_" + ev.Action)
	return nil
}
