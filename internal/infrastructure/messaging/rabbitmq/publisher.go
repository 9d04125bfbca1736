package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	zlog "github.com/rs/zerolog/log"
)

const (
	DefaultExchange = "organizer.events"

	// upper bound on waiting for the broker ack
	confirmTimeout = 5 * time.Second

	returnBuffer = 16
)

// Publisher sends outbox rows to a durable topic exchange with mandatory
// routing and publisher confirms. It reconnects lazily after a broker drop.
type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	returnCh <-chan amqp.Return
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	p := &Publisher{
		url:      url,
		exchange: exchange,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	p.conn = conn
	p.ch = ch

	p.returnCh = ch.NotifyReturn(make(chan amqp.Return, returnBuffer))

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

func (p *Publisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// PublishEvent publishes an envelope body. messageID must be the outbox
// message_id so consumers can dedupe redeliveries.
func (p *Publisher) PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error {
	if routingKey == "" {
		return errors.New("missing routingKey")
	}
	if strings.TrimSpace(messageID) == "" {
		return errors.New("missing messageID")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		p.closeLocked()
		if err := p.connect(); err != nil {
			return err
		}
		zlog.Info().Str("exchange", p.exchange).Msg("rabbitmq publisher reconnected")
	}

	dc, err := p.ch.PublishWithDeferredConfirmWithContext(
		ctx,
		p.exchange,
		routingKey,
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			MessageId:    messageID,
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	ack, err := dc.WaitContext(waitCtx)
	if err != nil {
		return fmt.Errorf("publish confirm: %w", err)
	}
	if !ack {
		return errors.New("publish nack")
	}

	// The broker sends basic.return before the ack of an unroutable
	// message, so any return for this publish is already buffered.
	return takeReturn(p.returnCh, messageID)
}

// takeReturn drains returns without blocking and reports NO_ROUTE when one
// belongs to messageID. Returns for other messages are stale and dropped.
func takeReturn(returns <-chan amqp.Return, messageID string) error {
	var noRoute error
	for {
		select {
		case ret, ok := <-returns:
			if !ok {
				return noRoute
			}
			if ret.MessageId == messageID {
				noRoute = errors.New("NO_ROUTE: " + ret.RoutingKey)
				continue
			}
			zlog.Warn().
				Str("message_id", ret.MessageId).
				Str("routing_key", ret.RoutingKey).
				Msg("dropping stale rabbitmq return")
		default:
			return noRoute
		}
	}
}
