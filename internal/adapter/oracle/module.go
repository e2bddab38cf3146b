package oracle

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
	"github.com/polkiloo/procurement/internal/usecase"
)

// Module exposes the language model client to fx graph.
var Module = fx.Provide(newOracle)

type oracleParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func newOracle(p oracleParams) (usecase.Oracle, error) {
	if p.Config.OracleAPIKey == "" {
		p.Logger.Warn("no language model api key configured, using local fallbacks")
		return Disabled{}, nil
	}
	return NewHTTPClient(p.Config.OracleAddress, p.Config.OracleAPIKey, p.Config.OracleModel, p.Logger)
}
