package config

import "go.uber.org/fx"

// Module provides the service configuration read from flags and the environment.
var Module = fx.Module("config", fx.Provide(Load))
