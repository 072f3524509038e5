package post

import (
	"context"
	"time"

	"ymate/internal/core/post"
	appPort "ymate/internal/ports/application"

	"github.com/gofrs/uuid"
)

// PostRepository پورت ذخیره‌سازی پست‌ها. FindByID returns (nil, nil) when
// the post does not exist.
type PostRepository interface {
	Create(ctx context.Context, p *post.Post) error
	Save(ctx context.Context, p *post.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
	// FindByState returns posts of one domain in one state, newest first.
	FindByState(ctx context.Context, domain post.Domain, state post.State) ([]*post.Post, error)
	FindByOwner(ctx context.Context, domain post.Domain, ownerID uuid.UUID) ([]*post.Post, error)
}

// PostInput is the content a caller may set on create and update.
type PostInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Deadline    *time.Time      `json:"deadline"`
	Link        string          `json:"link"`
	Attributes  post.Attributes `json:"attributes"`
}

// DTOها برای UseCase
type PostDTO struct {
	ID             string                    `json:"id"`
	Domain         string                    `json:"domain"`
	OwnerStudentID int64                     `json:"owner_student_id"`
	OwnerNickname  string                    `json:"owner_nickname"`
	Title          string                    `json:"title"`
	Description    string                    `json:"description"`
	Deadline       time.Time                 `json:"deadline"`
	Link           string                    `json:"link,omitempty"`
	Attributes     post.Attributes           `json:"attributes"`
	State          string                    `json:"state"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
	Applications   []*appPort.ApplicationDTO `json:"applications,omitempty"`
}

// ListResult partitions posts by state; each slice is newest first.
type ListResult struct {
	Active   []*PostDTO `json:"active"`
	Finished []*PostDTO `json:"finished"`
	Deleted  []*PostDTO `json:"deleted"`
}
