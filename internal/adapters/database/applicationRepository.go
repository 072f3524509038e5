package database

import (
	"context"
	"fmt"

	"ymate/internal/core/application"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// ApplicationRepositoryDatabase پیاده‌سازی ApplicationRepository برای دیتابیس
type ApplicationRepositoryDatabase struct {
	DB *gorm.DB
}

func NewApplicationRepositoryDatabase(db *gorm.DB) *ApplicationRepositoryDatabase {
	return &ApplicationRepositoryDatabase{DB: db}
}

func (repo *ApplicationRepositoryDatabase) Create(ctx context.Context, a *application.Application) error {
	if err := conn(ctx, repo.DB).Create(a).Error; err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (repo *ApplicationRepositoryDatabase) Save(ctx context.Context, a *application.Application) error {
	if err := conn(ctx, repo.DB).Save(a).Error; err != nil {
		return fmt.Errorf("update application %s: %w", a.ID, err)
	}
	return nil
}

func (repo *ApplicationRepositoryDatabase) SaveAll(ctx context.Context, apps []*application.Application) error {
	db := conn(ctx, repo.DB)
	for _, a := range apps {
		if err := db.Save(a).Error; err != nil {
			return fmt.Errorf("update application %s: %w", a.ID, err)
		}
	}
	return nil
}

func (repo *ApplicationRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*application.Application, error) {
	var a application.Application
	found, err := first(forUpdate(ctx, conn(ctx, repo.DB)).Where("id = ?", id), &a)
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}

func (repo *ApplicationRepositoryDatabase) FindByPost(ctx context.Context, postID uuid.UUID) ([]*application.Application, error) {
	return repo.find(ctx, "post_id = ?", postID)
}

func (repo *ApplicationRepositoryDatabase) FindByPostAndState(ctx context.Context, postID uuid.UUID, state application.State) ([]*application.Application, error) {
	return repo.find(ctx, "post_id = ? AND state = ?", postID, state)
}

func (repo *ApplicationRepositoryDatabase) FindByUserAndPost(ctx context.Context, userID, postID uuid.UUID) ([]*application.Application, error) {
	return repo.find(ctx, "applicant_id = ? AND post_id = ?", userID, postID)
}

func (repo *ApplicationRepositoryDatabase) FindByUser(ctx context.Context, userID uuid.UUID) ([]*application.Application, error) {
	return repo.find(ctx, "applicant_id = ?", userID)
}

func (repo *ApplicationRepositoryDatabase) find(ctx context.Context, query string, args ...interface{}) ([]*application.Application, error) {
	var apps []*application.Application
	if err := conn(ctx, repo.DB).Where(query, args...).Order("created_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}
