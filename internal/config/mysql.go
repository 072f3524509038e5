package config

import (
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DB متغیر برای دسترسی به دیتابیس
var DB *gorm.DB

// InitDB اتصال به دیتابیس MySQL را راه‌اندازی می‌کند
func InitDB(dsn string) {
	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		// engine writes run inside Transactor.WithinTransaction
		SkipDefaultTransaction: true,
	})
	if err != nil {
		Logger.Fatal("Error connecting to the database", zap.Error(err))
	}
	Logger.Info("Database connected")
}
