package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisClient متغیر برای دسترسی به Redis
var RedisClient *redis.Client

// InitRedis اتصال به Redis را راه‌اندازی می‌کند
func InitRedis(addr, password string, db int) {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,     // آدرس Redis
		Password: password, // رمز عبور
		DB:       db,       // شماره دیتابیس
	})

	// بررسی اتصال به Redis
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		Logger.Fatal("Error connecting to Redis", zap.Error(err))
	}
	Logger.Info("Connected to Redis", zap.String("ping", s))
}
