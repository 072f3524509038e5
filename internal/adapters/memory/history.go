package memory

import (
	"context"

	"ymate/internal/core/notification"

	"github.com/gofrs/uuid"
)

type HistoryRepository struct{ s *Store }

func (r *HistoryRepository) Save(ctx context.Context, rec *notification.Record) error {
	return r.s.do(ctx, func(d *data) error {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.Must(uuid.NewV4())
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = r.s.Now()
		}
		if _, ok := d.records[rec.ID]; !ok {
			d.recOrder = append(d.recOrder, rec.ID)
		}
		d.records[rec.ID] = *rec
		return nil
	})
}

// FindByUser returns the user's records, newest first.
func (r *HistoryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*notification.Record, error) {
	var out []*notification.Record
	err := r.s.do(ctx, func(d *data) error {
		for i := len(d.recOrder) - 1; i >= 0; i-- {
			rec := d.records[d.recOrder[i]]
			if rec.UserID == userID {
				out = append(out, &rec)
			}
		}
		return nil
	})
	return out, err
}
