package main

import (
	"context"
	"log"
	"os"
	"time"

	httpctrl "shop-backend/internal/controllers/http"
	mmysql "shop-backend/internal/infra/mysql"
	"shop-backend/internal/infra/notify"
	"shop-backend/internal/infra/rabbitmq"
	"shop-backend/internal/repository"
	"shop-backend/internal/repository/memory"
	mysqlrepo "shop-backend/internal/repository/mysql"
	"shop-backend/internal/services"
	"shop-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	var (
		orderRepo   repository.OrderRepository
		productRepo repository.ProductRepository
	)
	if os.Getenv("MYSQL_HOST") != "" {
		db, err := mmysql.NewMySQLFromEnv()
		if err != nil {
			log.Fatalf("db: connect: %v", err)
		}
		sqlDB, _ := db.DB()
		sqlDB.SetMaxOpenConns(1000)
		sqlDB.SetMaxIdleConns(200)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		sqlDB.SetConnMaxIdleTime(1 * time.Minute)

		orderRepo = mysqlrepo.NewOrderRepository(db)
		productRepo = mysqlrepo.NewProductRepository(db)
	} else {
		log.Println("MYSQL_HOST not set, using in-memory repositories")
		orderRepo = memory.NewOrderRepository()
		productRepo = memory.NewProductRepository()
	}

	var notifier services.Notifier = services.NopNotifier{}
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		publisher, err := rabbitmq.NewPublisher(url, "order.exchange")
		if err != nil {
			log.Fatalf("failed to init publisher: %v", err)
		}
		defer publisher.Close()
		notifier = notify.NewDispatcher(publisher)
	}

	ledger := services.NewStockLedger(productRepo, notifier)
	validator := services.NewOrderValidator(productRepo)

	s := services.NewOrderService(orderRepo, validator, ledger, notifier)
	s.SetLineCommitPolicy(services.ParseLineCommitPolicy(os.Getenv("LINE_COMMIT_POLICY")))
	s.SetMetrics(metrics.NewOrderMetrics())

	var redisClient *redis.Client
	if host := os.Getenv("REDIS_HOST"); host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         host + ":6379",
			DB:           0,
			PoolSize:     200,
			MinIdleConns: 20,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		s.SetRedisClient(redisClient)

		go func() {
			time.Sleep(5 * time.Second)
			if err := s.WarmupProductCache(context.Background(), []uint64{1, 2, 3}); err != nil {
				log.Printf("cache warmup failed: %v", err)
			}
		}()
	}

	handler := httpctrl.NewHandler(s, productRepo, redisClient)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting shop backend on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
