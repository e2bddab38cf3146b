package redact

import (
	"go.uber.org/fx"

	"github.com/polkiloo/procurement/internal/usecase"
)

// Module provides the personal data redactor.
var Module = fx.Provide(func() usecase.Redactor { return New() })
