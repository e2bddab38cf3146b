package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/domain/model"
)

const routingKeyPrefix = "request.status."

var messageNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:procurement:status-event"))

// message is the JSON body of a status event.
type message struct {
	EventID   int64     `json:"event_id"`
	HistoryID int64     `json:"history_id"`
	RequestID int64     `json:"request_id"`
	OldStatus *string   `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
	Note      *string   `json:"note"`
}

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type connection interface {
	Channel() (channel, error)
	Close() error
}

type amqpConnection struct {
	*amqp.Connection
}

func (c amqpConnection) Channel() (channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// AMQPPublisher sends status events to a topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     connection
	channel  channel
	exchange string
	logger   *zap.Logger
}

// NewAMQPPublisher connects to the broker and declares the exchange.
func NewAMQPPublisher(url, exchange string, logger *zap.Logger) (*AMQPPublisher, error) {
	raw, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	conn := amqpConnection{raw}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := newAMQPPublisher(conn, ch, exchange, logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return p, nil
}

func newAMQPPublisher(conn connection, ch channel, exchange string, logger *zap.Logger) (*AMQPPublisher, error) {
	if err := declareExchange(ch, exchange); err != nil {
		return nil, err
	}
	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange, logger: logger}, nil
}

func declareExchange(ch channel, exchange string) error {
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	return nil
}

// MessageID derives the AMQP message id from the status history entry, so a
// redelivered event carries the same id as the first attempt.
func MessageID(event model.StatusEvent) string {
	return uuid.NewSHA1(messageNamespace, []byte(strconv.FormatInt(event.HistoryID, 10))).String()
}

// Publish sends one event as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, event model.StatusEvent) error {
	body, err := json.Marshal(toMessage(event))
	if err != nil {
		return fmt.Errorf("encode status event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    MessageID(event),
		Timestamp:    event.ChangedAt,
		Body:         body,
	}
	key := RoutingKey(event.NewStatus)

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, key, false, false, msg)
	if errors.Is(err, amqp.ErrClosed) {
		if reopenErr := p.reopenChannel(); reopenErr != nil {
			return fmt.Errorf("publish status event: %w", errors.Join(err, reopenErr))
		}
		err = p.channel.PublishWithContext(ctx, p.exchange, key, false, false, msg)
	}
	if err != nil {
		return fmt.Errorf("publish status event: %w", err)
	}
	p.logger.Debug("status event published", zap.Int64("request_id", event.RequestID), zap.String("status", string(event.NewStatus)))
	return nil
}

// reopenChannel replaces a channel the broker has closed. Callers hold p.mu.
func (p *AMQPPublisher) reopenChannel() error {
	_ = p.channel.Close()
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to reopen channel: %w", err)
	}
	if err := declareExchange(ch, p.exchange); err != nil {
		_ = ch.Close()
		return err
	}
	p.channel = ch
	p.logger.Warn("broker channel reopened", zap.String("exchange", p.exchange))
	return nil
}

// Close releases the channel and the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// RoutingKey maps a status to its topic, for example request.status.in_progress.
func RoutingKey(status model.ProcessStatus) string {
	return routingKeyPrefix + strings.ReplaceAll(strings.ToLower(string(status)), " ", "_")
}

func toMessage(event model.StatusEvent) message {
	msg := message{
		EventID:   event.ID,
		HistoryID: event.HistoryID,
		RequestID: event.RequestID,
		NewStatus: string(event.NewStatus),
		ChangedAt: event.ChangedAt.UTC(),
		Note:      event.Note,
	}
	if event.OldStatus != nil {
		old := string(*event.OldStatus)
		msg.OldStatus = &old
	}
	return msg
}

// LogPublisher writes status events to the log when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher constructs LogPublisher.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event and never fails.
func (p *LogPublisher) Publish(_ context.Context, event model.StatusEvent) error {
	p.logger.Info("status changed",
		zap.Int64("request_id", event.RequestID),
		zap.String("routing_key", RoutingKey(event.NewStatus)),
		zap.Time("changed_at", event.ChangedAt),
	)
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error { return nil }
