package memory

import (
	"context"
	"sort"

	"ymate/internal/core/post"

	"github.com/gofrs/uuid"
)

type PostRepository struct{ s *Store }

func (r *PostRepository) Create(ctx context.Context, p *post.Post) error {
	return r.s.do(ctx, func(d *data) error {
		if p.ID == uuid.Nil {
			p.ID = uuid.Must(uuid.NewV4())
		}
		r.s.stamp(&p.CreatedAt, &p.UpdatedAt)
		stored := *p
		stored.Attributes = p.Attributes.Clone()
		d.posts[p.ID] = stored
		d.postOrder = append(d.postOrder, p.ID)
		return nil
	})
}

func (r *PostRepository) Save(ctx context.Context, p *post.Post) error {
	return r.s.do(ctx, func(d *data) error {
		if _, ok := d.posts[p.ID]; !ok {
			d.postOrder = append(d.postOrder, p.ID)
		}
		r.s.stamp(&p.CreatedAt, &p.UpdatedAt)
		stored := *p
		stored.Attributes = p.Attributes.Clone()
		d.posts[p.ID] = stored
		return nil
	})
}

func (r *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var out *post.Post
	err := r.s.do(ctx, func(d *data) error {
		if p, ok := d.posts[id]; ok {
			out = copyPost(p)
		}
		return nil
	})
	return out, err
}

func (r *PostRepository) FindByState(ctx context.Context, domain post.Domain, state post.State) ([]*post.Post, error) {
	return r.filter(ctx, func(p *post.Post) bool { return p.Domain == domain && p.State == state })
}

func (r *PostRepository) FindByOwner(ctx context.Context, domain post.Domain, ownerID uuid.UUID) ([]*post.Post, error) {
	return r.filter(ctx, func(p *post.Post) bool { return p.Domain == domain && p.OwnerID == ownerID })
}

// filter returns matches newest first; posts created at the same instant
// keep reverse insertion order.
func (r *PostRepository) filter(ctx context.Context, match func(*post.Post) bool) ([]*post.Post, error) {
	var out []*post.Post
	err := r.s.do(ctx, func(d *data) error {
		for i := len(d.postOrder) - 1; i >= 0; i-- {
			p := d.posts[d.postOrder[i]]
			if match(&p) {
				out = append(out, copyPost(p))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func copyPost(p post.Post) *post.Post {
	p.Attributes = p.Attributes.Clone()
	return &p
}
