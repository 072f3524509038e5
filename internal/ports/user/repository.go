package user

import (
	"context"

	"ymate/internal/core/user"

	"github.com/gofrs/uuid"
)

// UserRepository پورت برای ذخیره‌سازی و بازیابی کاربران. Finders return
// (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Save(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.User, error)
	FindByStudentID(ctx context.Context, studentID int64) (*user.User, error)
	FindByNickname(ctx context.Context, nickname string) (*user.User, error)
}

// DTOها برای UseCase
type LoginResponse struct {
	StudentID int64  `json:"studentId"`
	Nickname  string `json:"nickname"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type UserDTO struct {
	StudentID int64  `json:"studentId"`
	Nickname  string `json:"nickname"`
}
