package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/optionpricing/internal/pricing/application"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/optionpricing/internal/pricing/infrastructure/messaging"
	persistence_mysql "github.com/wyfcoding/optionpricing/internal/pricing/infrastructure/persistence/mysql"
	persistence_redis "github.com/wyfcoding/optionpricing/internal/pricing/infrastructure/persistence/redis"
	http_iface "github.com/wyfcoding/optionpricing/internal/pricing/interfaces/http"
	"github.com/wyfcoding/optionpricing/pkg/cache"
	"github.com/wyfcoding/optionpricing/pkg/config"
	"github.com/wyfcoding/optionpricing/pkg/db"
	"github.com/wyfcoding/optionpricing/pkg/logger"
	"github.com/wyfcoding/optionpricing/pkg/metrics"
	"github.com/wyfcoding/optionpricing/pkg/middleware"
	"github.com/wyfcoding/optionpricing/pkg/mq"
)

func main() {
	configPath := flag.String("config", "configs/pricing.yaml", "配置文件路径")
	flag.Parse()

	// 1. Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config failed", "path", *configPath, "error", err)
	}

	// 2. Logger
	logger.Init(&cfg.Log)

	// 3. Database
	gdb, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatal("connect database failed", "error", err)
	}

	mysqlRepo := persistence_mysql.NewPricingRepository(gdb)
	if err := mysqlRepo.AutoMigrate(); err != nil {
		logger.Fatal("migrate database failed", "error", err)
	}

	// 4. Redis（不可用时降级为直连 MySQL）
	var repo domain.PricingRepository = mysqlRepo
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisCache, err := cache.New(ctx, &cfg.Redis)
	cancel()
	if err != nil {
		logger.Warn("redis unavailable, running without cache", "error", err)
	} else {
		repo = persistence_redis.NewCachedPricingRepository(mysqlRepo, redisCache)
		defer redisCache.Close()
	}

	// 5. Kafka
	producer := mq.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()
	publisher := messaging.NewKafkaEventPublisher(producer)

	// 6. Layers
	service := application.NewPricingService(repo, publisher, cfg.Simulation)
	handler := http_iface.NewHandler(service)

	// 7. HTTP Server
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.Metrics(),
	)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.Server.Name})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("serve failed", "error", err)
		}
	}()

	// 8. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
