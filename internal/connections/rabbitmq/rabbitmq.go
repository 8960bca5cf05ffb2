package rabbitmq

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"production-planner/internal/config"
)

var ErrPublishNacked = errors.New("publish NACK from broker")

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	publish publishFunc
}

// confirmation is the broker's answer to one publish.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type publishFunc func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)

// deferredPublish publishes on a channel in confirm mode. Every publish gets
// its own confirmation, so an abandoned wait never leaks into the next one.
func deferredPublish(ch *amqp.Channel) publishFunc {
	return func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
		dc, err := ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
		if err != nil {
			return nil, err
		}
		if dc == nil {
			return nil, errors.New("rabbitmq channel is not in confirm mode")
		}
		return dc, nil
	}
}

// Topology is what the planner needs on the broker: the fanout exchange the
// order store announces changes on, the planner's own queue bound to it, and
// the exchange analysis requests go out on.
type Topology struct {
	EventsExchange   string
	Queue            string
	AnalysisExchange string
}

func TopologyFrom(cfg config.RabbitMQConfig) Topology {
	return Topology{EventsExchange: cfg.Exchange, Queue: cfg.Queue, AnalysisExchange: cfg.AnalysisExchange}
}

func URL(cfg config.RabbitMQConfig) string {
	scheme := "amqp"
	if cfg.UseTLS {
		scheme = "amqps"
	}
	vhost := cfg.VHost
	if vhost == "" || vhost == "/" {
		vhost = ""
	}
	u := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + vhost,
	}
	return u.String()
}

func Dial(cfg config.RabbitMQConfig) (*Client, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	if cfg.UseTLS {
		conn, err = amqp.DialTLS(URL(cfg), &tls.Config{MinVersion: tls.VersionTLS12})
	} else {
		conn, err = amqp.Dial(URL(cfg))
	}
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Client{conn: conn, ch: ch, publish: deferredPublish(ch)}, nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) Ping() error {
	if c == nil || c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// Declare creates the exchanges and the planner queue. Everything is
// idempotent on the broker side.
func (c *Client) Declare(t Topology) error {
	if err := c.ch.ExchangeDeclare(t.EventsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", t.EventsExchange, err)
	}
	if t.AnalysisExchange != "" {
		if err := c.ch.ExchangeDeclare(t.AnalysisExchange, "fanout", true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", t.AnalysisExchange, err)
		}
	}
	if _, err := c.ch.QueueDeclare(t.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", t.Queue, err)
	}
	if err := c.ch.QueueBind(t.Queue, "", t.EventsExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", t.Queue, err)
	}
	return nil
}

// Consume starts a manual-ack consumer on queue.
func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}

// Publish sends a message and waits for the broker's ack or nack.
func (c *Client) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	conf, err := c.publish(ctx, exchange, key, msg)
	if err != nil {
		return err
	}
	ack, err := conf.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !ack {
		return ErrPublishNacked
	}
	return nil
}
