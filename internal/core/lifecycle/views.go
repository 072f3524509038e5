package lifecycle

import (
	"context"
	"fmt"

	"ymate/internal/core/application"
	"ymate/internal/core/post"
	"ymate/internal/core/user"
	appPort "ymate/internal/ports/application"
	postPort "ymate/internal/ports/post"
	userPort "ymate/internal/ports/user"

	"github.com/gofrs/uuid"
)

// Users loads the given users in one query and indexes them by id.
func Users(ctx context.Context, repo userPort.UserRepository, ids []uuid.UUID) (map[uuid.UUID]*user.User, error) {
	out := make(map[uuid.UUID]*user.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func PostDTO(p *post.Post, owner *user.User) *postPort.PostDTO {
	dto := &postPort.PostDTO{
		ID:          p.ID.String(),
		Domain:      string(p.Domain),
		Title:       p.Title,
		Description: p.Description,
		Deadline:    p.Deadline,
		Link:        p.Link,
		Attributes:  p.Attributes.Clone(),
		State:       string(p.State),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if owner != nil {
		dto.OwnerStudentID = owner.StudentID
		dto.OwnerNickname = owner.Nickname
	}
	return dto
}

func ApplicationDTO(a *application.Application, applicant *user.User) *appPort.ApplicationDTO {
	dto := &appPort.ApplicationDTO{
		ID:        a.ID.String(),
		PostID:    a.PostID.String(),
		Message:   a.Message,
		Details:   a.Details,
		State:     string(a.State),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if applicant != nil {
		dto.ApplicantStudentID = applicant.StudentID
		dto.ApplicantNickname = applicant.Nickname
	}
	return dto
}
