package config

import "go.uber.org/fx"

// Module provides the loaded *Config to fx graphs.
var Module = fx.Provide(Load)
