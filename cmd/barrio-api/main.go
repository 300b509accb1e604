package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/rajivgeraev/barrio-api/internal/cache"
	"github.com/rajivgeraev/barrio-api/internal/config"
	"github.com/rajivgeraev/barrio-api/internal/db"
	"github.com/rajivgeraev/barrio-api/internal/events"
	"github.com/rajivgeraev/barrio-api/internal/middleware"
	"github.com/rajivgeraev/barrio-api/internal/notifications"
	"github.com/rajivgeraev/barrio-api/internal/services/auth"
	"github.com/rajivgeraev/barrio-api/internal/services/catalog"
	"github.com/rajivgeraev/barrio-api/internal/services/cloudinary"
	"github.com/rajivgeraev/barrio-api/internal/services/listing"
	"github.com/rajivgeraev/barrio-api/internal/services/rating"
	"github.com/rajivgeraev/barrio-api/internal/services/reputation"
	"github.com/rajivgeraev/barrio-api/internal/services/transaction"
	"github.com/rajivgeraev/barrio-api/internal/utils"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()
	cfg.ApplyLogLevel()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем базу данных
	store, err := db.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer store.Close()

	if cfg.DatabaseConfig.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("❌ Ошибка при применении схемы: %v", err)
		}
	}

	hub := notifications.NewHub(notifications.DefaultInboxSize)
	defer hub.Shutdown()

	// Redis нужен для кеша и событий; без него сервис работает, но без кеша
	var (
		catalogCache    catalog.Cache
		reputationCache reputation.Cache
		publisher       transaction.Publisher = hub
	)
	rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warnf("⚠️ Redis недоступен, кеш отключён, события доставляются локально: %v", err)
	} else {
		defer rdb.Close()
		catalogCache = cache.NewJSONCache(rdb, cfg.CacheTTL)
		reputationCache = cache.NewReputationCache(rdb, cfg.CacheTTL)
		publisher = events.NewRedisPublisher(rdb, cfg.EventsChannel)
		startSubscription(ctx, rdb, cfg.EventsChannel, hub)
	}

	// Создаём сервисы
	jwtService := utils.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	authMiddleware := middleware.AuthMiddleware(jwtService)

	cloudinaryService, err := cloudinary.NewCloudinaryService(cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка при настройке Cloudinary: %v", err)
	}

	catalogService := catalog.NewCatalogService(store, catalogCache)
	listingService := listing.NewListingService(store, store, cloudinaryService)
	transactionService := transaction.NewTransactionService(store, listingService, publisher)
	reputationService := reputation.NewReputationService(store, store, reputationCache)
	ratingService := rating.NewRatingService(store, store, listingService, reputationService)
	authService := auth.NewAuthService(cfg, store, store, jwtService)

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:         "Barrio API",
		ErrorHandler:    middleware.ErrorHandler,
		StructValidator: utils.NewStructValidator(),
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} ${path} | ${locals:requestid}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	app.Get("/health", healthcheck.NewHealthChecker(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			return store.Ping(c.Context()) == nil
		},
	}))

	// Регистрируем маршруты
	authService.SetupRoutes(app, authMiddleware)
	reputationService.SetupRoutes(app)
	catalogService.SetupRoutes(app, authMiddleware)
	listingService.SetupRoutes(app, authMiddleware)
	cloudinaryService.SetupRoutes(app, authMiddleware)
	transactionService.SetupRoutes(app, authMiddleware)
	ratingService.SetupRoutes(app, authMiddleware)
	hub.SetupRoutes(app, authMiddleware)

	go func() {
		log.Infof("✅ Barrio API запущен на порту %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("❌ Сервер остановлен: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Завершение работы...")

	hub.Shutdown()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("❌ Ошибка при остановке сервера: %v", err)
	}
}

// startSubscription пересылает события из Redis в почтовые ящики пользователей
func startSubscription(ctx context.Context, rdb *redis.Client, channel string, hub *notifications.Hub) {
	in, err := events.Subscribe(ctx, rdb, channel)
	if err != nil {
		log.Warnf("⚠️ Уведомления недоступны: %v", err)
		return
	}
	go hub.Run(in)
}
