package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	dbadapter "ymate/internal/adapters/database"
	"ymate/internal/adapters/httpapi"
	"ymate/internal/adapters/httpapi/middleware"
	"ymate/internal/adapters/memory"
	"ymate/internal/adapters/push"
	redisadapter "ymate/internal/adapters/redis"
	"ymate/internal/config"
	"ymate/internal/core/application"
	applicationapp "ymate/internal/core/application/service"
	"ymate/internal/core/category"
	"ymate/internal/core/lifecycle"
	"ymate/internal/core/notification"
	notificationapp "ymate/internal/core/notification/service"
	"ymate/internal/core/post"
	postapp "ymate/internal/core/post/service"
	"ymate/internal/core/user"
	userapp "ymate/internal/core/user/service"
	appPort "ymate/internal/ports/application"
	notifPort "ymate/internal/ports/notification"
	postPort "ymate/internal/ports/post"
	txPort "ymate/internal/ports/tx"
	userPort "ymate/internal/ports/user"
	"ymate/internal/workers"

	"go.uber.org/zap"
)

// storage همه آداپترهای خروجی که سرویس‌ها به آن نیاز دارند
type storage struct {
	users   userPort.UserRepository
	posts   postPort.PostRepository
	apps    appPort.ApplicationRepository
	history notifPort.HistoryRepository
	tx      txPort.Transactor
	queue   notifPort.Queue
	close   func()
}

func main() {
	config.LoadEnv()
	config.InitLogger(config.Getenv("APP_ENV", "development"))
	defer config.Logger.Sync() // flush buffer
	// بارگذاری تنظیمات از .env
	config.Init()
	cfg := config.Cfg

	st := openStorage(cfg)
	// بستن منابع بعد از اتمام کار سرور
	defer st.close()

	var gateway notifPort.PushGateway = push.NewLogGateway(config.Logger)
	if cfg.FCMServerKey != "" {
		gateway = push.NewFCMGateway(cfg.FCMEndpoint, cfg.FCMServerKey)
	}

	sweeper := lifecycle.NewSweeper(st.posts, st.apps)
	// یوزکیس/سرویس
	dispatcher := notificationapp.NewDispatcher(st.queue, gateway, st.history, st.users, config.Logger)
	userSvc := userapp.NewUserService(st.users, []byte(cfg.JWTSecret), config.Logger)

	domains := make(map[post.Domain]httpapi.Domain)
	for _, cat := range category.All() {
		domains[cat.Name()] = httpapi.Domain{
			Posts:        postapp.NewPostService(cat, st.posts, st.apps, st.users, st.tx, sweeper, config.Logger),
			Applications: applicationapp.NewApplicationService(cat, st.posts, st.apps, st.users, st.tx, sweeper, dispatcher, config.Logger),
		}
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, config.Logger)
	r := httpapi.SetupRoutes(userSvc, domains, dispatcher, limiter, config.Logger) // تزریق یوزکیس به آداپتر ورودی

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// اجرای worker در پس‌زمینه
	worker := workers.NewNotificationWorker(st.queue, dispatcher, cfg.NotifyPoll, config.Logger)
	workerDone := worker.Start(ctx)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		config.Logger.Info("App is running...", zap.String("addr", srv.Addr), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	config.Logger.Info("🛑 shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.Error("Error during shutdown", zap.Error(err))
	}
	// منتظر ماندن برای worker قبل از بستن Redis و دیتابیس
	<-workerDone
}

func openStorage(cfg *config.Settings) *storage {
	if cfg.StorageDriver == config.DriverMemory {
		store := memory.NewStore()
		config.Logger.Warn("⚠️ using in-memory storage; data is lost on restart")
		return &storage{
			users:   store.Users(),
			posts:   store.Posts(),
			apps:    store.Applications(),
			history: store.History(),
			tx:      store,
			queue:   memory.NewQueue(0),
			close:   func() {},
		}
	}

	// اتصال به دیتابیس و اجرای مایگریشن‌ها
	config.InitDB(cfg.DBDSN)
	if err := config.DB.AutoMigrate(
		&user.User{},
		&post.Post{},
		&application.Application{},
		&notification.Record{},
	); err != nil {
		config.Logger.Fatal("Error during migrations", zap.Error(err))
	}
	config.Logger.Info("✅ Database migrations completed")

	// اتصال به Redis
	config.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// آداپترهای خروجی
	return &storage{
		users:   dbadapter.NewUserRepositoryDatabase(config.DB),
		posts:   dbadapter.NewPostRepositoryDatabase(config.DB),
		apps:    dbadapter.NewApplicationRepositoryDatabase(config.DB),
		history: dbadapter.NewNotificationRepositoryDatabase(config.DB),
		tx:      dbadapter.NewTransactor(config.DB),
		queue:   redisadapter.NewNotificationQueueRedis(config.RedisClient, config.Logger),
		close:   func() { closeResources(config.Logger) },
	}
}

// closeResources بستن اتصالات به Redis و دیتابیس
func closeResources(logger *zap.Logger) {
	// بستن اتصال به Redis
	if err := config.RedisClient.Close(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
	}

	// بستن اتصال دیتابیس
	sqlDB, err := config.DB.DB() // گرفتن *sql.DB از *gorm.DB
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
