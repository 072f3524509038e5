package application

import (
	"context"
	"time"

	"ymate/internal/core/application"

	"github.com/gofrs/uuid"
)

// ApplicationRepository پورت ذخیره‌سازی درخواست‌ها. FindByID returns
// (nil, nil) when the application does not exist.
type ApplicationRepository interface {
	Create(ctx context.Context, a *application.Application) error
	Save(ctx context.Context, a *application.Application) error
	SaveAll(ctx context.Context, apps []*application.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*application.Application, error)
	FindByPost(ctx context.Context, postID uuid.UUID) ([]*application.Application, error)
	FindByPostAndState(ctx context.Context, postID uuid.UUID, state application.State) ([]*application.Application, error)
	FindByUserAndPost(ctx context.Context, userID, postID uuid.UUID) ([]*application.Application, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*application.Application, error)
}

type ApplicationInput struct {
	Message string `json:"message"`
	Details string `json:"details"`
}

// DTOها برای UseCase
type ApplicationDTO struct {
	ID                 string    `json:"id"`
	PostID             string    `json:"post_id"`
	ApplicantStudentID int64     `json:"applicant_student_id"`
	ApplicantNickname  string    `json:"applicant_nickname"`
	Message            string    `json:"message"`
	Details            string    `json:"details,omitempty"`
	State              string    `json:"state"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
