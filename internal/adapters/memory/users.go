package memory

import (
	"context"
	"errors"
	"fmt"

	"ymate/internal/core/user"

	"github.com/gofrs/uuid"
)

var ErrDuplicate = errors.New("duplicate key")

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return r.s.do(ctx, func(d *data) error {
		for _, other := range d.users {
			if other.StudentID == u.StudentID || other.Nickname == u.Nickname {
				return fmt.Errorf("create user %d: %w", u.StudentID, ErrDuplicate)
			}
		}
		if u.ID == uuid.Nil {
			u.ID = uuid.Must(uuid.NewV4())
		}
		r.s.stamp(&u.CreatedAt, &u.UpdatedAt)
		d.users[u.ID] = *u
		d.userOrder = append(d.userOrder, u.ID)
		return nil
	})
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	return r.s.do(ctx, func(d *data) error {
		if _, ok := d.users[u.ID]; !ok {
			d.userOrder = append(d.userOrder, u.ID)
		}
		r.s.stamp(&u.CreatedAt, &u.UpdatedAt)
		d.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var out *user.User
	err := r.s.do(ctx, func(d *data) error {
		if u, ok := d.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.User, error) {
	var out []*user.User
	err := r.s.do(ctx, func(d *data) error {
		seen := make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			if u, ok := d.users[id]; ok {
				out = append(out, &u)
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) FindByStudentID(ctx context.Context, studentID int64) (*user.User, error) {
	return r.findOne(ctx, func(u *user.User) bool { return u.StudentID == studentID })
}

func (r *UserRepository) FindByNickname(ctx context.Context, nickname string) (*user.User, error) {
	return r.findOne(ctx, func(u *user.User) bool { return u.Nickname == nickname })
}

func (r *UserRepository) findOne(ctx context.Context, match func(*user.User) bool) (*user.User, error) {
	var out *user.User
	err := r.s.do(ctx, func(d *data) error {
		for _, id := range d.userOrder {
			u := d.users[id]
			if match(&u) {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}
