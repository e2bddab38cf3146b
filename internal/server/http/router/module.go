package router

import "go.uber.org/fx"

// Module provides the gin engine serving the procurement API.
var Module = fx.Module("router", fx.Provide(Setup))
