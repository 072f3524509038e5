package httpapi

import (
	"context"
	"net/http"

	"ymate/internal/adapters/httpapi/middleware"
	"ymate/internal/core/post"
	appPort "ymate/internal/ports/application"
	notifPort "ymate/internal/ports/notification"
	postPort "ymate/internal/ports/post"
	userPort "ymate/internal/ports/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// UserUseCase: اینترفیسِ لازم برای کنترلر/روتر (Inbound Port)
type UserUseCase interface {
	LoginUser(ctx context.Context, studentID int64, password, pushToken string) (*userPort.LoginResponse, error)
	RegisterUser(ctx context.Context, studentID int64, nickname, password string) (*userPort.UserDTO, error)
	CheckNickname(ctx context.Context, nickname string) error
	ParseToken(token string) (int64, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, studentID int64, in postPort.PostInput) (*postPort.PostDTO, error)
	UpdatePost(ctx context.Context, studentID int64, postID string, in postPort.PostInput) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, studentID int64, postID string) error
	FinishPost(ctx context.Context, studentID int64, postID string) error
	GetPost(ctx context.Context, postID string) (*postPort.PostDTO, error)
	ListPosts(ctx context.Context, states ...post.State) (*postPort.ListResult, error)
	ListMyPosts(ctx context.Context, studentID int64) ([]*postPort.PostDTO, error)
}

type ApplicationUseCase interface {
	Apply(ctx context.Context, studentID int64, postID string, in appPort.ApplicationInput) (*appPort.ApplicationDTO, error)
	Cancel(ctx context.Context, studentID int64, applicationID string) (*appPort.ApplicationDTO, error)
	Accept(ctx context.Context, studentID int64, applicationID string) (*appPort.ApplicationDTO, error)
	Reject(ctx context.Context, studentID int64, applicationID string) (*appPort.ApplicationDTO, error)
	ListMyApplications(ctx context.Context, studentID int64) ([]*appPort.ApplicationDTO, error)
}

type NotificationUseCase interface {
	History(ctx context.Context, studentID int64) ([]*notifPort.RecordDTO, error)
}

// Domain bundles the engines of one category.
type Domain struct {
	Posts        PostUseCase
	Applications ApplicationUseCase
}

// فقط روتینگ: UseCase از بیرون تزریق می‌شود
func SetupRoutes(
	userUC UserUseCase,
	domains map[post.Domain]Domain,
	notificationUC NotificationUseCase,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.Metrics())

	uc := NewUserController(userUC, logger)
	dc := NewDomainController(domains, logger)
	nc := NewNotificationController(notificationUC, logger)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// مسیرهای عمومی بدون JWT Middleware
	public := r.Group("/", limiter.Handler())
	public.POST("/user/join", uc.RegisterUser)
	public.POST("/user/login", uc.LoginUser)
	public.GET("/user/nickname/:nickname", uc.CheckNickname)
	public.GET("/main", dc.Main)
	public.GET("/:domain", dc.ListPosts)
	public.GET("/:domain/:postId", dc.GetPost)

	// مسیرهای نیازمند JWT
	auth := r.Group("/", middleware.JWTAuthMiddleware(userUC), limiter.Handler())
	auth.GET("/push", nc.History)
	auth.POST("/:domain", dc.CreatePost)
	auth.PUT("/:domain/:postId", dc.UpdatePost)
	auth.DELETE("/:domain/:postId", dc.DeletePost)
	auth.POST("/:domain/:postId/finish", dc.FinishPost)
	auth.POST("/:domain/:postId/apply", dc.Apply)
	auth.POST("/:domain/applications/:appId/cancel", dc.Cancel)
	auth.POST("/:domain/applications/:appId/accept", dc.Accept)
	auth.POST("/:domain/applications/:appId/reject", dc.Reject)
	auth.GET("/:domain/mine/posts", dc.ListMyPosts)
	auth.GET("/:domain/mine/applications", dc.ListMyApplications)
	return r
}
