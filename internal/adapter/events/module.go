package events

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
	"github.com/polkiloo/procurement/internal/usecase"
)

// Module exposes the status event publisher to fx graph.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *zap.Logger
}

type closingPublisher interface {
	usecase.EventPublisher
	Close() error
}

var dialAMQP = func(url, exchange string, logger *zap.Logger) (closingPublisher, error) {
	return NewAMQPPublisher(url, exchange, logger)
}

func newPublisher(p publisherParams) (usecase.EventPublisher, error) {
	var publisher closingPublisher
	if p.Config.EventsURL == "" {
		p.Logger.Info("no broker configured, status events go to the log")
		publisher = NewLogPublisher(p.Logger)
	} else {
		var err error
		if publisher, err = dialAMQP(p.Config.EventsURL, p.Config.EventsExchange, p.Logger); err != nil {
			return nil, err
		}
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}
