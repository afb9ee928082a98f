package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shop-service/cache"
	"shop-service/config"
	"shop-service/consumers"
	"shop-service/controllers"
	"shop-service/database"
	"shop-service/middlewares"
	"shop-service/rabbitmq"
	"shop-service/repositories"
	"shop-service/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := config.LoadConfig()

	db, err := database.Open(cfg.DSN())
	if err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer db.Close()

	redisClient, err := cache.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Redis initialization failed: %v", err)
	}
	defer redisClient.Close()

	responseCache := cache.NewCache(redisClient, "shop-cache")
	rateCounter := cache.NewCounter(redisClient, "shop-ratelimit")

	rmq, err := rabbitmq.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("RabbitMQ initialization failed: %v", err)
	}
	defer rmq.Close()

	if err := rmq.SetupQueues(); err != nil {
		log.Fatalf("Failed to setup RabbitMQ queues: %v", err)
	}

	go consumers.StartOrderConsumer(rmq.Channel, cfg)

	orderService := services.NewOrderService(
		db,
		repositories.NewOrderRepository(),
		repositories.NewProductRepository(),
	)

	app := &controllers.Handlers{
		DB:         db,
		Cfg:        cfg,
		Users:      repositories.NewUserRepository(),
		Posts:      repositories.NewPostRepository(),
		Categories: repositories.NewCategoryRepository(),
		Products:   repositories.NewProductRepository(),
		Orders:     orderService,
		RMQ:        rmq,
	}

	r := gin.Default()

	r.Use(middlewares.PrometheusMiddleware())
	r.Use(middlewares.RateLimitMiddleware(rateCounter, cfg.RateLimitRequests, cfg.RateLimitWindow))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/api/auth/register", app.Register)
	r.POST("/api/auth/login", app.Login)

	cached := middlewares.CacheMiddleware(responseCache, cfg.CacheTTL)

	authGroup := r.Group("/api")
	authGroup.Use(middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		authGroup.GET("/users", app.ListUsers)
		authGroup.GET("/users/:id", cached, app.GetUser)
		authGroup.PUT("/users/:id", app.UpdateUser)
		authGroup.PATCH("/users/:id", app.PatchUser)
		authGroup.DELETE("/users/:id", app.DeleteUser)

		authGroup.GET("/posts", app.ListPosts)
		authGroup.GET("/posts/:id", cached, app.GetPost)
		authGroup.POST("/posts", app.CreatePost)
		authGroup.PATCH("/posts/:id", app.PatchPost)
		authGroup.DELETE("/posts/:id", app.DeletePost)

		authGroup.GET("/categories", app.ListCategories)
		authGroup.GET("/categories/:id", cached, app.GetCategory)
		authGroup.POST("/categories", app.CreateCategory)
		authGroup.PUT("/categories/:id", app.UpdateCategory)
		authGroup.DELETE("/categories/:id", app.DeleteCategory)

		authGroup.GET("/products", app.ListProducts)
		authGroup.GET("/products/:id", cached, app.GetProduct)
		authGroup.POST("/products", app.CreateProduct)
		authGroup.PATCH("/products/:id", app.PatchProduct)
		authGroup.DELETE("/products/:id", app.DeleteProduct)

		authGroup.GET("/orders", app.ListOrders)
		authGroup.GET("/orders/:id", cached, app.GetOrder)
		authGroup.POST("/orders/many", app.GetOrdersByIDs)
		authGroup.POST("/orders", app.CreateOrder)
		authGroup.POST("/orders/with_products", app.CreateOrderWithProducts)
		authGroup.PUT("/orders/:id", app.UpdateOrder)
		authGroup.PATCH("/orders/:id", app.PatchOrder)
		authGroup.PATCH("/orders/with_products/:id", app.PatchOrderWithProducts)
		authGroup.DELETE("/orders/:id", app.DeleteOrder)
	}

	port := ":" + cfg.Port
	log.Printf("Shop service starting on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
