package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/tomasvalko/minimart/internal/server/http/handlers"
	"github.com/tomasvalko/minimart/internal/server/http/middleware"
)

func newEngine(logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	return engine
}

// User configures the user service router.
func User(facade handlers.UserFacade, pinger handlers.HealthPinger, logger *slog.Logger) *gin.Engine {
	engine := newEngine(logger)

	authHandler := handlers.NewAuthHandler(facade)
	userHandler := handlers.NewUserHandler(facade)

	engine.GET("/healthz", handlers.NewHealthHandler(pinger).Healthz)

	api := engine.Group("/api/v1")
	user := api.Group("/user")
	user.POST("/add", authHandler.Register)
	user.POST("/login", authHandler.Login)
	user.POST("/logout", authHandler.Logout)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.GET("/whoami", authHandler.Whoami)
	userAuth.GET("/getone", userHandler.GetOne)
	userAuth.GET("/getall", userHandler.GetAll)
	userAuth.PUT("/update/:id", userHandler.Update)
	userAuth.DELETE("/delete", userHandler.Delete)

	return engine
}

// Stock configures the stock service router.
func Stock(facade handlers.StockFacade, pinger handlers.HealthPinger, logger *slog.Logger) *gin.Engine {
	engine := newEngine(logger)

	stockHandler := handlers.NewStockHandler(facade)

	engine.GET("/healthz", handlers.NewHealthHandler(pinger).Healthz)

	api := engine.Group("/api/v1")
	stock := api.Group("/stock")
	stock.GET("", stockHandler.ByCategory)
	stock.GET("/all", stockHandler.All)
	stock.GET("/one/:id", stockHandler.GetOne)
	stock.POST("/check", stockHandler.Check)
	stock.POST("/decrease", stockHandler.Decrease)
	stock.POST("/increase-one", stockHandler.ReplaceOne)
	stock.POST("/create", stockHandler.Create)

	return engine
}

// Order configures the order service router. Every endpoint requires a
// verified credential.
func Order(facade handlers.OrderFacade, pinger handlers.HealthPinger, logger *slog.Logger) *gin.Engine {
	engine := newEngine(logger)

	orderHandler := handlers.NewOrderHandler(facade)

	engine.GET("/healthz", handlers.NewHealthHandler(pinger).Healthz)

	api := engine.Group("/api/v1")
	order := api.Group("/order")
	order.Use(middleware.AuthRequired(facade))
	order.POST("", orderHandler.Place)
	order.GET("/me", orderHandler.ListMine)
	order.GET("/:id", orderHandler.GetByID)

	return engine
}
