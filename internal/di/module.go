package di

import (
	"go.uber.org/fx"

	stockAdapter "github.com/tomasvalko/minimart/internal/adapter/stock"
	"github.com/tomasvalko/minimart/internal/app"
	"github.com/tomasvalko/minimart/internal/config"
	"github.com/tomasvalko/minimart/internal/logger"
	"github.com/tomasvalko/minimart/internal/pkg/auth"
	"github.com/tomasvalko/minimart/internal/server/http/handlers"
	"github.com/tomasvalko/minimart/internal/server/http/router"
	"github.com/tomasvalko/minimart/internal/storage/postgres"
	"github.com/tomasvalko/minimart/internal/usecase"
)

func base() []fx.Option {
	return []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) handlers.HealthPinger { return s }),
	}
}

// UserModule assembles the user service graph.
func UserModule(opts ...fx.Option) fx.Option {
	modules := append(base(),
		fx.Provide(func(f *app.UserFacade) handlers.UserFacade { return f }),
		router.UserModule,
		app.UserModule,
	)
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

// StockModule assembles the stock service graph.
func StockModule(opts ...fx.Option) fx.Option {
	modules := append(base(),
		fx.Provide(func(f *app.StockFacade) handlers.StockFacade { return f }),
		router.StockModule,
		app.StockModule,
	)
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

// OrderModule assembles the order service graph.
func OrderModule(opts ...fx.Option) fx.Option {
	modules := append(base(),
		stockAdapter.Module,
		fx.Provide(func(client stockAdapter.Client) usecase.StockAuthority { return client }),
		fx.Provide(func(f *app.OrderFacade) handlers.OrderFacade { return f }),
		router.OrderModule,
		app.OrderModule,
	)
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
