package memory

import (
	"context"

	"ymate/internal/core/application"

	"github.com/gofrs/uuid"
)

type ApplicationRepository struct{ s *Store }

func (r *ApplicationRepository) Create(ctx context.Context, a *application.Application) error {
	return r.s.do(ctx, func(d *data) error {
		if a.ID == uuid.Nil {
			a.ID = uuid.Must(uuid.NewV4())
		}
		r.s.stamp(&a.CreatedAt, &a.UpdatedAt)
		d.apps[a.ID] = *a
		d.appOrder = append(d.appOrder, a.ID)
		return nil
	})
}

func (r *ApplicationRepository) Save(ctx context.Context, a *application.Application) error {
	return r.s.do(ctx, func(d *data) error {
		r.save(d, a)
		return nil
	})
}

func (r *ApplicationRepository) SaveAll(ctx context.Context, apps []*application.Application) error {
	return r.s.do(ctx, func(d *data) error {
		for _, a := range apps {
			r.save(d, a)
		}
		return nil
	})
}

func (r *ApplicationRepository) save(d *data, a *application.Application) {
	if _, ok := d.apps[a.ID]; !ok {
		d.appOrder = append(d.appOrder, a.ID)
	}
	r.s.stamp(&a.CreatedAt, &a.UpdatedAt)
	d.apps[a.ID] = *a
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*application.Application, error) {
	var out *application.Application
	err := r.s.do(ctx, func(d *data) error {
		if a, ok := d.apps[id]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r *ApplicationRepository) FindByPost(ctx context.Context, postID uuid.UUID) ([]*application.Application, error) {
	return r.filter(ctx, func(a *application.Application) bool { return a.PostID == postID })
}

func (r *ApplicationRepository) FindByPostAndState(ctx context.Context, postID uuid.UUID, state application.State) ([]*application.Application, error) {
	return r.filter(ctx, func(a *application.Application) bool { return a.PostID == postID && a.State == state })
}

func (r *ApplicationRepository) FindByUserAndPost(ctx context.Context, userID, postID uuid.UUID) ([]*application.Application, error) {
	return r.filter(ctx, func(a *application.Application) bool { return a.ApplicantID == userID && a.PostID == postID })
}

func (r *ApplicationRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*application.Application, error) {
	return r.filter(ctx, func(a *application.Application) bool { return a.ApplicantID == userID })
}

// filter returns matches in creation order.
func (r *ApplicationRepository) filter(ctx context.Context, match func(*application.Application) bool) ([]*application.Application, error) {
	var out []*application.Application
	err := r.s.do(ctx, func(d *data) error {
		for _, id := range d.appOrder {
			a := d.apps[id]
			if match(&a) {
				out = append(out, &a)
			}
		}
		return nil
	})
	return out, err
}
