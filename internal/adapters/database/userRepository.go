package database

import (
	"context"
	"fmt"

	"ymate/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// UserRepositoryDatabase پیاده‌سازی UserRepository برای دیتابیس
type UserRepositoryDatabase struct {
	DB *gorm.DB
}

// NewUserRepositoryDatabase سازنده UserRepositoryDatabase
func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{DB: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) error {
	if err := conn(ctx, repo.DB).Create(u).Error; err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (repo *UserRepositoryDatabase) Save(ctx context.Context, u *user.User) error {
	if err := conn(ctx, repo.DB).Save(u).Error; err != nil {
		return fmt.Errorf("update user %s: %w", u.ID, err)
	}
	return nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *UserRepositoryDatabase) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.User, error) {
	var users []*user.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := conn(ctx, repo.DB).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepositoryDatabase) FindByStudentID(ctx context.Context, studentID int64) (*user.User, error) {
	return repo.findOne(ctx, "student_id = ?", studentID)
}

func (repo *UserRepositoryDatabase) FindByNickname(ctx context.Context, nickname string) (*user.User, error) {
	return repo.findOne(ctx, "nickname = ?", nickname)
}

func (repo *UserRepositoryDatabase) findOne(ctx context.Context, query string, args ...interface{}) (*user.User, error) {
	var u user.User
	found, err := first(conn(ctx, repo.DB).Where(query, args...), &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}
