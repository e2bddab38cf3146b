package usecase

import (
	"context"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// Oracle answers a prompt with JSON conforming to schema and decodes it into out.
type Oracle interface {
	Request(ctx context.Context, prompt model.Prompt, schema model.Schema, out any) error
}

// Redactor masks personal data before text leaves the process.
type Redactor interface {
	Redact(text string) string
}

// DocumentExtractor turns an uploaded file into plain text.
type DocumentExtractor interface {
	Extract(data []byte, filename string) (string, error)
}

// EventPublisher delivers status events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event model.StatusEvent) error
}
