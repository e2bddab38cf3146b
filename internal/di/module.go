package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/procurement/internal/adapter/document"
	"github.com/polkiloo/procurement/internal/adapter/events"
	"github.com/polkiloo/procurement/internal/adapter/oracle"
	"github.com/polkiloo/procurement/internal/adapter/redact"
	"github.com/polkiloo/procurement/internal/app"
	"github.com/polkiloo/procurement/internal/config"
	"github.com/polkiloo/procurement/internal/logger"
	"github.com/polkiloo/procurement/internal/server/http/handlers"
	"github.com/polkiloo/procurement/internal/server/http/router"
	"github.com/polkiloo/procurement/internal/storage/postgres"
	"github.com/polkiloo/procurement/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		oracle.Module,
		redact.Module,
		document.Module,
		events.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		fx.Provide(func(f *app.ProcurementFacade) handlers.ProcurementFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
