package http

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/config"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/http/controllers"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/http/handlers"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/http/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Router struct {
	healthController  *controllers.HealthController
	productController *controllers.ProductController
	userController    *controllers.UserController
	orderController   *controllers.OrderController
	authenticator     middleware.Authenticator
	rateLimiter       middleware.RateLimiter
	config            config.HTTPConfig
}

func NewRouter(
	healthController *controllers.HealthController,
	productController *controllers.ProductController,
	userController *controllers.UserController,
	orderController *controllers.OrderController,
	authenticator middleware.Authenticator,
	rateLimiter middleware.RateLimiter,
	config config.HTTPConfig,
) *Router {
	return &Router{
		healthController:  healthController,
		productController: productController,
		userController:    userController,
		orderController:   orderController,
		authenticator:     authenticator,
		rateLimiter:       rateLimiter,
		config:            config,
	}
}

func (r *Router) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(r.config.CORSOrigins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = r.config.CORSOrigins
	}
	return cfg
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	rl := r.rateLimiter
	authenticated := middleware.Authenticate(r.authenticator)
	admin := middleware.RequireAdmin()

	router.Use(
		middleware.RequestID(),
		cors.New(r.corsConfig()),
		middleware.LogRequest(),
		handlers.ErrorMiddleware(r.config.ExposeErrorStack),
		handlers.Recovery(),
	)

	router.Static("/images", filepath.Join(r.config.StaticDir, "images"))

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/health", r.healthController.Health)

		products := apiGroup.Group("/products")
		products.GET("", r.productController.GetAll)
		products.GET("/:id", r.productController.GetByID)
		products.POST("", authenticated, admin, r.productController.CreateProduct)
		products.PUT("/:id", authenticated, admin, r.productController.UpdateProduct)
		products.PATCH("/:id", authenticated, admin, r.productController.PatchProduct)

		users := apiGroup.Group("/users")
		users.POST("/register", r.userController.Register)
		users.POST("/login", middleware.RateLimit(rl, middleware.LoginPolicy), r.userController.Login)
		users.GET("/profile", authenticated, r.userController.Profile)

		orders := apiGroup.Group("/orders", authenticated)
		orders.POST("", middleware.RateLimit(rl, middleware.CreateOrderPolicy), r.orderController.CreateOrder)
		orders.GET("", admin, r.orderController.GetOrders)
		orders.GET("/myorders", r.orderController.GetMyOrders)
		orders.GET("/:id", r.orderController.GetOrderByID)
		orders.PUT("/:id/pay", r.orderController.PayOrder)
		orders.PUT("/:id/deliver", admin, r.orderController.DeliverOrder)
	}
}

// Handler builds the gin engine with every route mounted.
func (r *Router) Handler() http.Handler {
	engine := gin.New()
	r.SetupRoutes(engine)
	return engine
}

func (r *Router) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", r.config.BindInterface, r.config.Port),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
