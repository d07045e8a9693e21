package server

import (
	"context"
	"net/http"
	"strconv"

	"medifind/internal/config"
	"medifind/internal/handler"
	appmiddleware "medifind/internal/middleware"
	"medifind/internal/repository"
	"medifind/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Server struct {
	echo                *echo.Echo
	cfg                 *config.Config
	userRepo            repository.UserRepository
	orderHandler        *handler.OrderHandler
	storeHandler        *handler.StoreHandler
	medicationHandler   *handler.MedicationHandler
	notificationHandler *handler.NotificationHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userRepo repository.UserRepository,
	orderService service.OrderService,
	catalogService service.CatalogService,
	inventoryService service.InventoryService,
	notificationService service.NotificationService,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:                e,
		cfg:                 cfg,
		userRepo:            userRepo,
		orderHandler:        handler.NewOrderHandler(orderService),
		storeHandler:        handler.NewStoreHandler(catalogService, inventoryService),
		medicationHandler:   handler.NewMedicationHandler(catalogService),
		notificationHandler: handler.NewNotificationHandler(notificationService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")
	auth := appmiddleware.Auth(s.cfg.Auth.Secret, s.userRepo)

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- catalog --------
	api.GET("/stores", s.storeHandler.ListStores)
	api.GET("/stores/:storeId", s.storeHandler.GetStore)
	api.GET("/stores/:storeId/inventory", s.storeHandler.GetInventory)
	api.GET("/stores/:storeId/inventory/:medicationId", s.storeHandler.GetInventoryItem)
	api.GET("/medications", s.medicationHandler.ListMedications)
	api.GET("/medications/:id", s.medicationHandler.GetMedication)

	// -------- store owner --------
	api.PUT("/stores/:storeId/inventory", s.storeHandler.Restock, auth)
	api.GET("/stores/:storeId/orders", s.orderHandler.ListStoreOrders, auth)

	// -------- orders --------
	orders := api.Group("/orders", auth)
	placeOrder := []echo.MiddlewareFunc{}
	if s.cfg.Order.RateLimit > 0 {
		placeOrder = append(placeOrder, orderRateLimiter(s.cfg.Order.RateLimit))
	}
	orders.POST("", s.orderHandler.PlaceOrder, placeOrder...)
	orders.GET("", s.orderHandler.ListOrders)
	orders.GET("/:id", s.orderHandler.GetOrder)
	orders.PATCH("/:id/status", s.orderHandler.UpdateStatus)

	// -------- notifications --------
	notifications := api.Group("/notifications", auth)
	notifications.GET("", s.notificationHandler.ListNotifications)
	notifications.POST("/read-all", s.notificationHandler.MarkAllRead)
	notifications.POST("/:id/read", s.notificationHandler.MarkRead)
}

// orderRateLimiter throttles order placement per authenticated user.
func orderRateLimiter(perSecond float64) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(rate.Limit(perSecond)),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return strconv.FormatUint(uint64(appmiddleware.UserID(c)), 10), nil
		},
	})
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Error("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
