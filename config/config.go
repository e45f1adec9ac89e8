package config

import (
	"os"
	"strconv"
)

type Config struct {
	// 数据库配置
	DatabaseURL string

	// 服务器配置
	Port string

	// 解说消息队列配置 (AMQPURL 为空时不启动消费者)
	AMQPURL   string
	AMQPQueue string

	// 最近解说缓存条数
	RecentCacheSize int

	// 其他配置
	Environment string
}

func Load() *Config {
	return &Config{
		// 数据库配置
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/cricket?sslmode=disable"),

		// 服务器配置
		Port: getEnv("PORT", "8080"),

		// 解说消息队列配置
		AMQPURL:   getEnv("AMQP_URL", ""),
		AMQPQueue: getEnv("AMQP_QUEUE", "cricket.commentary"),

		// 缓存配置
		RecentCacheSize: getEnvInt("RECENT_CACHE_SIZE", 10),

		// 其他配置
		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}
