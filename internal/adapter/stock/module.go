package stock

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/tomasvalko/minimart/internal/config"
)

// Module exposes stock client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.StockServiceAddress, p.Logger)
}
