package router

import "go.uber.org/fx"

// Per-service router constructors for fx runtime.
var (
	UserModule  = fx.Provide(User)
	StockModule = fx.Provide(Stock)
	OrderModule = fx.Provide(Order)
)
