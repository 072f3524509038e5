package userapp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ymate/internal/core/errs"
	userEntity "ymate/internal/core/user"
	userPort "ymate/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer = "ymate"
	tokenTTL    = 24 * time.Hour
)

// UserService سرویس مدیریت کاربران
type UserService struct {
	UserRepository userPort.UserRepository
	Logger         *zap.Logger
	jwtKey         []byte
}

func NewUserService(repo userPort.UserRepository, jwtKey []byte, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepository: repo,
		Logger:         logger,
		jwtKey:         jwtKey,
	}
}

// RegisterUser ثبت‌نام کاربر جدید
func (s *UserService) RegisterUser(ctx context.Context, studentID int64, nickname, password string) (*userPort.UserDTO, error) {
	nickname = strings.TrimSpace(nickname)
	if studentID <= 0 || nickname == "" || password == "" {
		return nil, errs.InsufficientData("studentId, nickname and password are required")
	}

	// بررسی اینکه آیا شماره دانشجویی یا نام مستعار قبلاً ثبت شده است
	existing, err := s.UserRepository.FindByStudentID(ctx, studentID)
	if err != nil {
		return nil, s.internal("find user by student id", err)
	}
	if existing != nil {
		return nil, errs.Duplicate("student id already registered")
	}
	if err := s.CheckNickname(ctx, nickname); err != nil {
		return nil, err
	}

	// هش کردن پسورد
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, s.internal("hash password", err)
	}

	u := &userEntity.User{
		ID:        uuid.Must(uuid.NewV4()),
		StudentID: studentID,
		Nickname:  nickname,
		Password:  string(hashed),
	}
	if err := s.UserRepository.Create(ctx, u); err != nil {
		return nil, s.internal("create user", err)
	}

	s.Logger.Info("✅ user registered", zap.Int64("studentID", studentID))
	return &userPort.UserDTO{StudentID: u.StudentID, Nickname: u.Nickname}, nil
}

// CheckNickname returns Duplicate when nickname is taken.
func (s *UserService) CheckNickname(ctx context.Context, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return errs.InsufficientData("nickname is required")
	}
	u, err := s.UserRepository.FindByNickname(ctx, nickname)
	if err != nil {
		return s.internal("find user by nickname", err)
	}
	if u != nil {
		return errs.Duplicate("nickname already taken")
	}
	return nil
}

// LoginUser ورود کاربر و صدور توکن JWT. A non-empty pushToken replaces the
// stored device token.
func (s *UserService) LoginUser(ctx context.Context, studentID int64, password, pushToken string) (*userPort.LoginResponse, error) {
	u, err := s.UserRepository.FindByStudentID(ctx, studentID)
	if err != nil {
		return nil, s.internal("find user by student id", err)
	}
	if u == nil {
		return nil, errs.MemberNotFound()
	}

	// مقایسه پسورد هش‌شده
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, errs.New(errs.KindInvalidCredentials, "invalid credentials")
	}

	if pushToken = strings.TrimSpace(pushToken); pushToken != "" && pushToken != u.PushToken {
		u.PushToken = pushToken
		if err := s.UserRepository.Save(ctx, u); err != nil {
			return nil, s.internal("save push token", err)
		}
	}

	expiresAt := time.Now().Add(tokenTTL)
	token, err := s.generateJWT(u, expiresAt)
	if err != nil {
		return nil, s.internal("sign token", err)
	}

	return &userPort.LoginResponse{
		StudentID: u.StudentID,
		Nickname:  u.Nickname,
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

// generateJWT برای تولید توکن JWT
func (s *UserService) generateJWT(u *userEntity.User, expiresAt time.Time) (string, error) {
	claims := &jwt.StandardClaims{
		Subject:   strconv.FormatInt(u.StudentID, 10),
		Issuer:    tokenIssuer,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
}

// ParseToken validates an access token and returns its student id.
func (s *UserService) ParseToken(tokenString string) (int64, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return 0, errs.Wrap(errs.KindInvalidCredentials, "invalid token", err)
	}
	if claims.Issuer != tokenIssuer {
		return 0, errs.New(errs.KindInvalidCredentials, "invalid token")
	}
	studentID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errs.Wrap(errs.KindInvalidCredentials, "invalid token", errors.New("subject is not a student id"))
	}
	return studentID, nil
}

func (s *UserService) internal(op string, err error) error {
	s.Logger.Error("❌ user service failure", zap.String("op", op), zap.Error(err))
	return errs.Internalize(err)
}
