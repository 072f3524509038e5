// Package memory is an in-process implementation of every storage port. It
// backs the memory storage driver and the engine tests.
package memory

import (
	"context"
	"sync"
	"time"

	"ymate/internal/core/application"
	"ymate/internal/core/notification"
	"ymate/internal/core/post"
	"ymate/internal/core/user"

	"github.com/gofrs/uuid"
)

type txKey struct{}

// data is everything a transaction may need to roll back.
type data struct {
	users     map[uuid.UUID]user.User
	posts     map[uuid.UUID]post.Post
	apps      map[uuid.UUID]application.Application
	records   map[uuid.UUID]notification.Record
	userOrder []uuid.UUID
	postOrder []uuid.UUID
	appOrder  []uuid.UUID
	recOrder  []uuid.UUID
}

func (d *data) clone() *data {
	c := &data{
		users:     make(map[uuid.UUID]user.User, len(d.users)),
		posts:     make(map[uuid.UUID]post.Post, len(d.posts)),
		apps:      make(map[uuid.UUID]application.Application, len(d.apps)),
		records:   make(map[uuid.UUID]notification.Record, len(d.records)),
		userOrder: append([]uuid.UUID(nil), d.userOrder...),
		postOrder: append([]uuid.UUID(nil), d.postOrder...),
		appOrder:  append([]uuid.UUID(nil), d.appOrder...),
		recOrder:  append([]uuid.UUID(nil), d.recOrder...),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.posts {
		c.posts[k] = v
	}
	for k, v := range d.apps {
		c.apps[k] = v
	}
	for k, v := range d.records {
		c.records[k] = v
	}
	return c
}

// Store holds all entities. Every access is serialized on one mutex; a
// transaction holds it for its whole duration and restores a snapshot when
// fn fails.
type Store struct {
	mu  sync.Mutex
	d   *data
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		d: &data{
			users:   map[uuid.UUID]user.User{},
			posts:   map[uuid.UUID]post.Post{},
			apps:    map[uuid.UUID]application.Application{},
			records: map[uuid.UUID]notification.Record{},
		},
		Now: time.Now,
	}
}

// WithinTransaction implements ports/tx.Transactor. Nested calls join the
// outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// do runs fn under the store lock unless ctx already holds it.
func (s *Store) do(ctx context.Context, fn func(d *data) error) error {
	if inTx(ctx) {
		return fn(s.d)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

func (s *Store) stamp(created, updated *time.Time) {
	now := s.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func (s *Store) Users() *UserRepository               { return &UserRepository{s: s} }
func (s *Store) Posts() *PostRepository               { return &PostRepository{s: s} }
func (s *Store) Applications() *ApplicationRepository { return &ApplicationRepository{s: s} }
func (s *Store) History() *HistoryRepository          { return &HistoryRepository{s: s} }
