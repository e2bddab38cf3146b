package test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// OracleCall records one oracle request.
type OracleCall struct {
	Prompt model.Prompt
	Schema string
}

// OracleStub answers oracle requests with canned JSON keyed by schema name.
type OracleStub struct {
	Responses map[string]string
	Err       error
	RequestFn func(context.Context, model.Prompt, model.Schema, any) error

	mu    sync.Mutex
	Calls []OracleCall
}

// Request decodes the canned response for schema into out.
func (s *OracleStub) Request(ctx context.Context, prompt model.Prompt, schema model.Schema, out any) error {
	s.mu.Lock()
	s.Calls = append(s.Calls, OracleCall{Prompt: prompt, Schema: schema.Name})
	s.mu.Unlock()

	if s.RequestFn != nil {
		return s.RequestFn(ctx, prompt, schema, out)
	}
	if s.Err != nil {
		return s.Err
	}
	body, ok := s.Responses[schema.Name]
	if !ok {
		return errors.New("no canned response for " + schema.Name)
	}
	return json.Unmarshal([]byte(body), out)
}

// CallCount returns the number of recorded requests.
func (s *OracleStub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// RedactorStub replaces text through RedactFn or returns it unchanged.
type RedactorStub struct {
	RedactFn func(string) string
}

// Redact applies RedactFn when set.
func (s RedactorStub) Redact(text string) string {
	if s.RedactFn != nil {
		return s.RedactFn(text)
	}
	return text
}

// DocumentExtractorStub returns fixed text for any document.
type DocumentExtractorStub struct {
	Text string
	Err  error
}

// Extract returns the configured text or error.
func (s DocumentExtractorStub) Extract([]byte, string) (string, error) {
	return s.Text, s.Err
}

// PublisherStub records published status events.
type PublisherStub struct {
	Err       error
	PublishFn func(context.Context, model.StatusEvent) error

	mu     sync.Mutex
	events []model.StatusEvent
}

// Publish stores the event unless Err or PublishFn say otherwise.
func (s *PublisherStub) Publish(ctx context.Context, event model.StatusEvent) error {
	if s.PublishFn != nil {
		if err := s.PublishFn(ctx, event); err != nil {
			return err
		}
	} else if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Published returns a copy of the recorded events.
func (s *PublisherStub) Published() []model.StatusEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.StatusEvent(nil), s.events...)
}
