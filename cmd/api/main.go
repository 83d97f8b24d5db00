package main

import (
	"time"

	_ "eshop/api/swagger" // swagger docs
	"eshop/internal/auth"
	"eshop/internal/cache"
	"eshop/internal/config"
	"eshop/internal/database"
	"eshop/internal/handler"
	"eshop/internal/logger"
	"eshop/internal/middleware"
	"eshop/internal/repository"
	"eshop/internal/service"
	"eshop/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           E-Shop API
// @version         1.0
// @description     E-commerce backend with JWT auth, product catalog, reviews, cart and orders.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// .env is optional, containers get their config from the environment
	_ = godotenv.Load("configs/.env")

	cfg, err := config.Load()
	if err != nil {
		panic("config load failed: " + err.Error())
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic("logger init failed: " + err.Error())
	}
	defer logger.Sync()

	db, err := database.NewConnection(cfg.Database.DSN())
	if err != nil {
		logger.Fatal("Database connection failed", zap.Error(err))
	}
	logger.Info("Connected to PostgreSQL")

	listCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		time.Duration(cfg.Redis.TTLSeconds)*time.Second)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL())

	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repository -> Service -> Handler
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	txManager := repository.NewTransactionManager(db)

	aggregator := service.NewRatingAggregator(reviewRepo, productRepo)

	authService := service.NewAuthService(userRepo, tokens)
	categoryService := service.NewCategoryService(categoryRepo, listCache)
	productService := service.NewProductService(productRepo, categoryRepo, listCache, wsHub)
	reviewService := service.NewReviewService(reviewRepo, productRepo, aggregator, txManager, wsHub, listCache)
	cartService := service.NewCartService(cartRepo, productRepo, txManager)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, txManager, wsHub)

	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService, reviewService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint for catalog and order events
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, tokens)
	})

	authn := middleware.RequireAuth(tokens, userRepo)

	api := router.Group("")
	authHandler.RegisterRoutes(api, authn)
	categoryHandler.RegisterRoutes(api, authn)
	productHandler.RegisterRoutes(api, authn)
	reviewHandler.RegisterRoutes(api, authn)
	cartHandler.RegisterRoutes(api, authn)
	orderHandler.RegisterRoutes(api, authn)

	logger.Info("Server listening", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
