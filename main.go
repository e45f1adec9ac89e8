package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"cricket-service/config"
	"cricket-service/database"
	"cricket-service/services"
	"cricket-service/web"
)

func main() {
	log.Println("Starting Cricket Live Service...")

	// 加载配置
	cfg := config.Load()

	// 连接数据库
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 运行数据库迁移
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database connected and migrated")

	// 创建缓存
	cache := services.NewInMemoryCache()
	defer cache.Close()

	// 创建WebSocket Hub
	wsHub := web.NewHub()
	go wsHub.Run()

	// 创建比赛状态引擎
	matchStore := services.NewMatchStore(db)
	matchService := services.NewMatchService(matchStore, cache, wsHub, cfg.RecentCacheSize)

	// 启动解说消息队列消费者 (未配置时跳过)
	var feedConsumer *services.FeedConsumer
	if cfg.AMQPURL != "" {
		feedConsumer = services.NewFeedConsumer(cfg, matchService)
		if err := feedConsumer.Start(); err != nil {
			log.Fatalf("Feed consumer error: %v", err)
		}
		log.Println("Commentary feed consumer started")
	} else {
		log.Println("AMQP_URL not set, commentary feed consumer disabled")
	}

	// 启动Web服务器
	server := web.NewServer(cfg, db, wsHub, matchService)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Web server error: %v", err)
		}
	}()

	log.Printf("Web server started on port %s", cfg.Port)
	log.Println("Service is running. Press Ctrl+C to stop.")

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down service...")

	// 清理资源
	if feedConsumer != nil {
		feedConsumer.Stop()
	}
	server.Stop()

	log.Println("Service stopped")
}
