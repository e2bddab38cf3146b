package events

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
	"github.com/polkiloo/procurement/internal/test"
)

func TestNewPublisherWithoutBrokerLogs(t *testing.T) {
	lc := &test.LifecycleRecorder{}
	p, err := newPublisher(publisherParams{Lifecycle: lc, Config: &config.Config{}, Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*LogPublisher); !ok {
		t.Fatalf("expected log publisher, got %T", p)
	}
	if len(lc.Hooks) != 1 {
		t.Fatalf("expected close hook, got %d", len(lc.Hooks))
	}
}

func TestNewPublisherDialsBroker(t *testing.T) {
	orig := dialAMQP
	t.Cleanup(func() { dialAMQP = orig })

	ch := &fakeChannel{}
	conn := &fakeConn{}
	var gotURL, gotExchange string
	dialAMQP = func(url, exchange string, logger *zap.Logger) (closingPublisher, error) {
		gotURL, gotExchange = url, exchange
		return newAMQPPublisher(conn, ch, exchange, logger)
	}

	lc := &test.LifecycleRecorder{}
	cfg := &config.Config{EventsURL: "amqp://broker", EventsExchange: "ex"}
	p, err := newPublisher(publisherParams{Lifecycle: lc, Config: cfg, Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*AMQPPublisher); !ok {
		t.Fatalf("expected amqp publisher, got %T", p)
	}
	if gotURL != "amqp://broker" || gotExchange != "ex" {
		t.Fatalf("unexpected dial arguments %q %q", gotURL, gotExchange)
	}

	if err := lc.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected stop error: %v", err)
	}
	if !conn.closed {
		t.Fatal("expected connection to be closed on stop")
	}
}

func TestNewPublisherDialFailure(t *testing.T) {
	orig := dialAMQP
	t.Cleanup(func() { dialAMQP = orig })
	dialAMQP = func(string, string, *zap.Logger) (closingPublisher, error) {
		return nil, errors.New("refused")
	}

	lc := &test.LifecycleRecorder{}
	cfg := &config.Config{EventsURL: "amqp://broker"}
	if _, err := newPublisher(publisherParams{Lifecycle: lc, Config: cfg, Logger: zap.NewNop()}); err == nil {
		t.Fatal("expected dial error")
	}
	if len(lc.Hooks) != 0 {
		t.Fatal("expected no hooks on failure")
	}
}
