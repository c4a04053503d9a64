package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/tomasvalko/minimart/internal/config"
	"github.com/tomasvalko/minimart/internal/worker"
)

// UserModule wires the user service runtime.
var UserModule = fx.Options(
	fx.Provide(
		NewUserFacade,
		newHTTPServer,
	),
	fx.Invoke(registerServerLifecycle),
)

// StockModule wires the stock service runtime.
var StockModule = fx.Options(
	fx.Provide(
		NewStockFacade,
		newHTTPServer,
	),
	fx.Invoke(registerServerLifecycle),
)

// OrderModule wires the order service runtime, including the staged order
// reaper.
var OrderModule = fx.Options(
	fx.Provide(
		NewOrderFacade,
		newHTTPServer,
		newStagedReaper,
	),
	fx.Invoke(registerServerLifecycle),
	fx.Invoke(registerReaperLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type reaperParams struct {
	fx.In

	Facade *OrderFacade
	Config *config.Config
	Logger *slog.Logger
}

func newStagedReaper(p reaperParams) *worker.StagedReaper {
	return worker.NewStagedReaper(
		p.Facade,
		p.Config.ReapInterval,
		p.Config.StagedOrderTTL,
		p.Config.ReapBatchSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Config     *config.Config
}

func registerServerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting http server", slog.String("addr", p.Server.Addr))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("http server stopped")
			return nil
		},
	})
}

func registerReaperLifecycle(lc fx.Lifecycle, reaper *worker.StagedReaper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			reaper.Start(context.WithoutCancel(ctx))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			reaper.Stop()
			return nil
		},
	})
}
