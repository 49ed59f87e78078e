package server

import (
	"fmt"
	"net/http"
	"time"

	"partner-catalog/internal/config"
	"partner-catalog/internal/database"
	"partner-catalog/internal/lock"
	"partner-catalog/internal/metrics"
	custommiddleware "partner-catalog/internal/middleware"
	"partner-catalog/internal/repository"
	"partner-catalog/internal/service"
	"partner-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServer wires repositories, services and handlers into an HTTP server.
// redisClient may be nil, in which case rate limiting is off and ingestion
// locks are process-local.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.MetricsMiddleware)

	if cfg.RateLimit.Enabled && redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit",
		}, logger))
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := db.Health()
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	sqlDB := db.DB()
	userRepo := repository.NewUserRepository(sqlDB)
	contactRepo := repository.NewContactRepository(sqlDB)
	categoryRepo := repository.NewCategoryRepository(sqlDB)
	shopRepo := repository.NewShopRepository(sqlDB)
	productRepo := repository.NewProductRepository(sqlDB)
	priceListRepo := repository.NewPriceListRepository(sqlDB)
	orderRepo := repository.NewOrderRepository(sqlDB)
	txManager := database.NewTxManager(sqlDB)

	var locker lock.Locker = lock.NewLocalLocker()
	if redisClient != nil {
		locker = lock.NewRedisLocker(redisClient)
	}

	userService := service.NewUserService(userRepo, cfg.JWT.Secret, time.Duration(cfg.JWT.AccessExpiry)*time.Minute)
	contactService := service.NewContactService(contactRepo)
	catalogService := service.NewCatalogService(categoryRepo, shopRepo, productRepo)
	partnerService := service.NewPartnerService(shopRepo, priceListRepo, orderRepo, txManager, locker,
		service.PartnerConfig{BaseDir: cfg.PriceList.BaseDir, LockTTL: cfg.PriceList.LockTTL}, logger)
	orderService := service.NewOrderService(orderRepo, contactRepo, txManager)

	authMiddleware := custommiddleware.AuthMiddleware(userService, logger)
	optionalAuth := custommiddleware.OptionalAuthMiddleware(userService, logger)

	transport.NewUserHandler(userService, contactService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewCatalogHandler(catalogService, logger).RegisterRoutes(router, optionalAuth)
	transport.NewPartnerHandler(partnerService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewOrderHandler(orderService, logger).RegisterRoutes(router, authMiddleware)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
