package database

import (
	"context"
	"fmt"

	"ymate/internal/core/post"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// PostRepositoryDatabase پیاده‌سازی PostRepository برای دیتابیس
type PostRepositoryDatabase struct {
	DB *gorm.DB
}

// NewPostRepositoryDatabase سازنده PostRepositoryDatabase
func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{DB: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) error {
	if err := conn(ctx, repo.DB).Create(p).Error; err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (repo *PostRepositoryDatabase) Save(ctx context.Context, p *post.Post) error {
	if err := conn(ctx, repo.DB).Save(p).Error; err != nil {
		return fmt.Errorf("update post %s: %w", p.ID, err)
	}
	return nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var p post.Post
	found, err := first(forUpdate(ctx, conn(ctx, repo.DB)).Where("id = ?", id), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) FindByState(ctx context.Context, domain post.Domain, state post.State) ([]*post.Post, error) {
	var posts []*post.Post
	if err := conn(ctx, repo.DB).
		Where("domain = ? AND state = ?", domain, state).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) FindByOwner(ctx context.Context, domain post.Domain, ownerID uuid.UUID) ([]*post.Post, error) {
	var posts []*post.Post
	if err := conn(ctx, repo.DB).
		Where("domain = ? AND owner_id = ?", domain, ownerID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
