package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	stockAdapter "github.com/tomasvalko/minimart/internal/adapter/stock"
	"github.com/tomasvalko/minimart/internal/app"
	"github.com/tomasvalko/minimart/internal/config"
	"github.com/tomasvalko/minimart/internal/domain/repository"
	"github.com/tomasvalko/minimart/internal/storage/postgres"
	"github.com/tomasvalko/minimart/internal/test"
	"github.com/tomasvalko/minimart/internal/usecase"
)

func testConfig() *config.Config {
	return &config.Config{
		RunAddress:          ":0",
		DatabaseURI:         "postgres://stub",
		StockServiceAddress: "http://localhost",
		JWTSecret:           "secret",
		TokenTTL:            time.Hour,
		ShutdownTimeout:     time.Millisecond,
		StagedOrderTTL:      time.Minute,
		ReapInterval:        time.Second,
		ReapBatchSize:       1,
	}
}

func graphReplacements() []fx.Option {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return []fx.Option{
		fx.Replace(testConfig()),
		fx.Replace(logger),
		fx.Replace(&postgres.Storage{}),
		fx.Replace(fx.Annotate(test.NewUserRepositoryStub(), fx.As(new(repository.UserRepository)))),
		fx.Replace(fx.Annotate(test.NewStockRepositoryStub(), fx.As(new(repository.StockRepository)))),
		fx.Replace(fx.Annotate(test.NewOrderRepositoryStub(), fx.As(new(repository.OrderRepository)))),
	}
}

func TestUserModuleComposesGraphWithReplacements(t *testing.T) {
	var facade *app.UserFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(fx.Annotate(context.Background(), fx.As(new(context.Context)))),
		UserModule(graphReplacements()...),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected user facade instance")
	}
}

func TestStockModuleComposesGraphWithReplacements(t *testing.T) {
	var facade *app.StockFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(fx.Annotate(context.Background(), fx.As(new(context.Context)))),
		StockModule(graphReplacements()...),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected stock facade instance")
	}
}

func TestOrderModuleComposesGraphWithReplacements(t *testing.T) {
	opts := append(graphReplacements(),
		fx.Replace(fx.Annotate(&test.StockAuthorityStub{}, fx.As(new(stockAdapter.Client)))),
		fx.Replace(fx.Annotate(&test.StockAuthorityStub{}, fx.As(new(usecase.StockAuthority)))),
	)

	var facade *app.OrderFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(fx.Annotate(context.Background(), fx.As(new(context.Context)))),
		OrderModule(opts...),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected order facade instance")
	}
}
