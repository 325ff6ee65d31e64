package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/auth"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/config"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/http"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/http/controllers"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/mongo"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/mongo/repository"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/outbox"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/rabbitmq"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/redis"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/logger"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/service"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// @title       Hoodlum Mentality API
// @version     1.0
// @description Storefront API: catalog, accounts and orders

// @host     localhost:5000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization

//go:generate swag init -d ../.. -g cmd/http/main.go -o ../../docs --parseInternal

func main() {
	cfg := config.NewConfig()
	if err := logger.Initialize(cfg.Logger.Endpoint, cfg.Logger.ServiceName, cfg.Logger.IsProduction); err != nil {
		// logger not available yet
		fmt.Fprintln(os.Stderr, "failed to initialize logger: "+err.Error())
		os.Exit(1)
	}
	defer flushLogs()

	if err := cfg.Validate(); err != nil {
		logger.Fatal(context.Background(), "Invalid configuration", err, nil)
	}

	// cancelled on SIGINT/SIGTERM, stops the outbox relay and the server
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, closeAll := connect(ctx, cfg)
	defer closeAll()

	database := deps.mongo.Database(cfg.Mongo.Database)
	outboxRepository := repository.NewOutboxRepository(database)

	relay := outbox.NewHandler(outboxRepository, deps.broker, cfg.Outbox)
	go relay.Start(ctx)
	logger.Info(ctx, "Outbox relay started", map[string]any{
		"interval":    cfg.Outbox.Interval.String(),
		"max_backoff": cfg.Outbox.MaxBackoff.String(),
		"batch_size":  cfg.Outbox.BatchSize,
	})

	svc := newServices(cfg, deps, database, outboxRepository)
	bootstrap(ctx, cfg, svc.users, svc.products)

	healthController := controllers.NewHealthController([]controllers.HealthChecker{
		{Name: "mongodb", Check: func(ctx context.Context) error { return mongo.Ping(ctx, deps.mongo) }},
		{Name: "redis", Check: deps.redis.Ping},
		{Name: "rabbitmq", Check: func(context.Context) error { return deps.broker.HealthCheck() }},
	})
	router := http.NewRouter(
		healthController,
		controllers.NewProductController(svc.products),
		controllers.NewUserController(svc.users),
		controllers.NewOrderController(svc.orders),
		svc.users,
		redis.NewRateLimiter(deps.redis, "ratelimit"),
		cfg.HTTP,
	)

	logger.Info(ctx, "Starting HTTP server", map[string]any{"addr": cfg.HTTP.BindInterface + ":" + cfg.HTTP.Port})
	if err := router.ListenAndServe(ctx); err != nil {
		logger.Fatal(ctx, "HTTP server stopped", err, nil)
	}
	logger.Info(ctx, "Shutdown complete", nil)
}

type infra struct {
	mongo  *mongodriver.Client
	redis  *redis.Client
	broker *rabbitmq.RabbitMQAdapter
}

// connect dials every backing service or exits. The returned func closes
// them in reverse order.
func connect(ctx context.Context, cfg *config.Config) (*infra, func()) {
	mongoClient, err := mongo.NewConnection(cfg.Mongo)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to MongoDB", err, nil)
	}
	logger.Info(ctx, "Connected to MongoDB", map[string]any{"database": cfg.Mongo.Database})

	redisClient, err := redis.NewConnection(cfg.Redis)
	if err != nil {
		_ = mongo.Disconnect(mongoClient)
		logger.Fatal(ctx, "Failed to connect to Redis", err, nil)
	}
	logger.Info(ctx, "Connected to Redis", nil)

	broker, err := rabbitmq.NewRabbitMQAdapter(cfg.RabbitMQ)
	if err != nil {
		_ = redisClient.Close()
		_ = mongo.Disconnect(mongoClient)
		logger.Fatal(ctx, "Failed to connect to RabbitMQ", err, nil)
	}
	logger.Info(ctx, "Connected to RabbitMQ", map[string]any{"exchanges": len(cfg.RabbitMQ.ExchangeConfigs)})

	return &infra{mongo: mongoClient, redis: redisClient, broker: broker}, func() {
		if err := broker.Close(); err != nil {
			logger.Error(ctx, "Failed to close RabbitMQ", err, nil)
		}
		if err := redisClient.Close(); err != nil {
			logger.Error(ctx, "Failed to close Redis", err, nil)
		}
		if err := mongo.Disconnect(mongoClient); err != nil {
			logger.Error(ctx, "Failed to disconnect from MongoDB", err, nil)
		}
	}
}

type services struct {
	users    *service.UserService
	products *service.ProductService
	orders   *service.OrderService
}

func newServices(cfg *config.Config, deps *infra, database *mongodriver.Database, events *repository.OutboxRepository) services {
	txManager := mongo.NewTransactionManager(deps.mongo)

	products := service.NewProductService(
		repository.NewProductRepository(database),
		redis.NewCache[domain.Product](deps.redis, "product-cache", redis.WithJitter(0.1)),
		events,
		txManager,
		cfg.Catalog.DemoFallback,
	)

	idempotency := service.NewIdempotencyService[domain.Order](
		redis.NewCache[service.IdempotencyRecord[domain.Order]](deps.redis, "idempotency-cache"),
		service.IdempotencyOptions{
			TTL:          cfg.Idempotency.TTL,
			PollInterval: cfg.Idempotency.PollInterval,
			PollTimeout:  cfg.Idempotency.PollTimeout,
		},
	)

	return services{
		users:    service.NewUserService(repository.NewUserRepository(database), auth.NewJWTIssuer(cfg.Auth)),
		products: products,
		orders: service.NewOrderService(
			repository.NewOrderRepository(database),
			products,
			redis.NewCache[domain.Order](deps.redis, "order-cache", redis.WithJitter(0.1)),
			idempotency,
			events,
			txManager,
		),
	}
}

func flushLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := logger.Shutdown(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "logger shutdown error: "+err.Error())
	}
}

// bootstrap ensures the configured admin account and optionally seeds the demo
// catalog. Failures are logged and never stop the server.
func bootstrap(ctx context.Context, cfg *config.Config, userService *service.UserService, productService *service.ProductService) {
	var owner domain.ID

	if cfg.Auth.HasAdminBootstrap() {
		admin, err := userService.EnsureAdmin(ctx, cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		if err != nil {
			logger.Error(ctx, "Failed to ensure admin user", err, map[string]any{"email": cfg.Auth.AdminEmail})
		} else {
			owner = admin.ID
		}
	}

	if !cfg.Catalog.SeedDemo {
		return
	}
	inserted, err := productService.SeedDemoProducts(ctx, owner)
	if err != nil {
		logger.Error(ctx, "Failed to seed demo products", err, map[string]any{"inserted": inserted})
		return
	}
	logger.Info(ctx, "Catalog seeding finished", map[string]any{"inserted": inserted})
}
