package logger

import "go.uber.org/fx"

// Module provides the shared *slog.Logger to fx graphs.
var Module = fx.Provide(New)
