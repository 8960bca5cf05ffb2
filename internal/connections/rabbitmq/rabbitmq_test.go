package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"production-planner/internal/config"
)

func TestURL(t *testing.T) {
	cfg := config.RabbitMQConfig{Host: "mq", Port: 5672, User: "guest", Password: "gu/est", VHost: "/"}
	assert.Equal(t, "amqp://guest:gu%2Fest@mq:5672/", URL(cfg))

	cfg.VHost = "pigmea"
	cfg.UseTLS = true
	cfg.Port = 5671
	assert.Equal(t, "amqps://guest:gu%2Fest@mq:5671/pigmea", URL(cfg))
}

func TestTopologyFrom(t *testing.T) {
	top := TopologyFrom(config.Default().RabbitMQ)
	assert.Equal(t, Topology{EventsExchange: "pedidos_events", Queue: "planner.invalidate", AnalysisExchange: "planning_analysis"}, top)
}

func TestPingClosed(t *testing.T) {
	assert.Error(t, (&Client{}).Ping())
	assert.Error(t, (*Client)(nil).Ping())
	(*Client)(nil).Close()
}

// fakeConfirm resolves once ack is sent on done.
type fakeConfirm struct {
	done chan bool
}

func (f fakeConfirm) WaitContext(ctx context.Context) (bool, error) {
	select {
	case ack := <-f.done:
		return ack, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

type fakeBroker struct {
	mu       sync.Mutex
	confirms []fakeConfirm
	msgs     []amqp.Publishing
	err      error
}

func (b *fakeBroker) publish(_ context.Context, _, _ string, msg amqp.Publishing) (confirmation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	b.msgs = append(b.msgs, msg)
	c := fakeConfirm{done: make(chan bool, 1)}
	b.confirms = append(b.confirms, c)
	return c, nil
}

// answer makes the broker confirm publish n with ack once it has been sent.
func (b *fakeBroker) answer(n int, ack bool) {
	b.mu.Lock()
	c := b.confirms[n]
	b.mu.Unlock()
	c.done <- ack
}

func (b *fakeBroker) published() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.confirms)
}

func TestPublishAckAndNack(t *testing.T) {
	broker := &fakeBroker{}
	c := &Client{publish: func(ctx context.Context, ex, key string, msg amqp.Publishing) (confirmation, error) {
		conf, err := broker.publish(ctx, ex, key, msg)
		if err == nil {
			n := broker.published()
			broker.answer(n-1, n == 1)
		}
		return conf, err
	}}

	require.NoError(t, c.Publish(context.Background(), "planning_analysis", "", amqp.Publishing{Body: []byte("{}")}))
	assert.False(t, broker.msgs[0].Timestamp.IsZero())

	err := c.Publish(context.Background(), "planning_analysis", "", amqp.Publishing{})
	assert.ErrorIs(t, err, ErrPublishNacked)
}

func TestPublishError(t *testing.T) {
	boom := errors.New("channel closed")
	broker := &fakeBroker{err: boom}
	c := &Client{publish: broker.publish}
	assert.ErrorIs(t, c.Publish(context.Background(), "x", "", amqp.Publishing{}), boom)
}

func TestPublishCancelledConfirmDoesNotLeak(t *testing.T) {
	broker := &fakeBroker{}
	c := &Client{publish: broker.publish}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Publish(ctx, "x", "", amqp.Publishing{}), context.DeadlineExceeded)

	// the first publish is acked late; the second must still see its own nack
	broker.answer(0, true)
	done := make(chan error, 1)
	go func() { done <- c.Publish(context.Background(), "x", "", amqp.Publishing{}) }()
	require.Eventually(t, func() bool { return broker.published() == 2 }, time.Second, time.Millisecond)
	broker.answer(1, false)
	assert.ErrorIs(t, <-done, ErrPublishNacked)
}
