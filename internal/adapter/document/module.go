package document

import (
	"go.uber.org/fx"

	"github.com/polkiloo/procurement/internal/usecase"
)

// Module provides the offer document extractor.
var Module = fx.Provide(func() usecase.DocumentExtractor { return New() })
