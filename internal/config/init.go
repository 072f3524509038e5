package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Settings تنظیمات برنامه که از متغیرهای محیطی خوانده می‌شوند
type Settings struct {
	Port           string
	Env            string
	StorageDriver  string
	DBDSN          string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	JWTSecret      string
	FCMEndpoint    string
	FCMServerKey   string
	RateLimitRPS   float64
	RateLimitBurst int
	NotifyPoll     time.Duration
}

var Cfg *Settings

// LoadEnv بارگذاری .env؛ missing file is not an error.
func LoadEnv() bool {
	return godotenv.Load() == nil
}

// Load reads Settings from the environment and validates them.
func Load() (*Settings, error) {
	s := &Settings{
		Port:           Getenv("APP_PORT", "8080"),
		Env:            Getenv("APP_ENV", "development"),
		StorageDriver:  Getenv("STORAGE_DRIVER", DriverMySQL),
		DBDSN:          os.Getenv("DB_DSN"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        atoi("REDIS_DB", 0), // مقدار پیش‌فرض دیتابیس Redis
		JWTSecret:      os.Getenv("JWT_SECRET"),
		FCMEndpoint:    os.Getenv("FCM_ENDPOINT"),
		FCMServerKey:   os.Getenv("FCM_SERVER_KEY"),
		RateLimitRPS:   atof("RATE_LIMIT_RPS", 5),
		RateLimitBurst: atoi("RATE_LIMIT_BURST", 10),
		NotifyPoll:     time.Duration(atoi("NOTIFY_POLL_SECONDS", 5)) * time.Second,
	}

	if s.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	switch s.StorageDriver {
	case DriverMemory:
	case DriverMySQL:
		if s.DBDSN == "" {
			return nil, errors.New("DB_DSN is not set")
		}
		if s.RedisAddr == "" {
			return nil, errors.New("REDIS_ADDR is not set")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", s.StorageDriver)
	}
	return s, nil
}

// Init loads .env and the settings into Cfg, exiting on invalid config.
// InitLogger must run first.
func Init() {
	// بارگذاری .env
	if !LoadEnv() {
		Logger.Info("No .env file found, using system environment variables")
	}
	s, err := Load()
	if err != nil {
		Logger.Fatal("Invalid configuration", zap.Error(err))
	}
	Cfg = s
}

// Getenv returns the variable or def when it is unset.
func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func atof(key string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return def
	}
	return f
}
