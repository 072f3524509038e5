// Package lifecycle holds the pieces shared by the post and application
// engines: the finalization sweep, the authorization guard and the
// transaction runner.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"ymate/internal/core/application"
	"ymate/internal/core/post"
	"ymate/internal/metrics"
	appPort "ymate/internal/ports/application"
	postPort "ymate/internal/ports/post"
)

// Sweeper finalizes expired posts when they are read. There is no timer:
// every engine path that loads a post sweeps it first.
type Sweeper struct {
	Posts postPort.PostRepository
	Apps  appPort.ApplicationRepository
	Now   func() time.Time
}

func NewSweeper(posts postPort.PostRepository, apps appPort.ApplicationRepository) *Sweeper {
	return &Sweeper{Posts: posts, Apps: apps, Now: time.Now}
}

// Sweep finishes p if it is ACTIVE and its deadline has passed. It reports
// whether anything was written; sweeping any other post is a no-op.
func (s *Sweeper) Sweep(ctx context.Context, p *post.Post) (bool, error) {
	if p == nil || p.State != post.StateActive || !p.Expired(s.Now()) {
		return false, nil
	}
	if err := s.Finalize(ctx, p); err != nil {
		return false, err
	}
	metrics.SweptPosts.WithLabelValues(string(p.Domain)).Inc()
	return true, nil
}

// SweepAll sweeps each post in place and returns how many were finalized.
func (s *Sweeper) SweepAll(ctx context.Context, posts []*post.Post) (int, error) {
	n := 0
	for _, p := range posts {
		changed, err := s.Sweep(ctx, p)
		if err != nil {
			return n, err
		}
		if changed {
			n++
		}
	}
	return n, nil
}

// Finalize moves p to FINISHED and cascades its WAITING applications to
// FINISHED. The caller has already checked that p is ACTIVE.
func (s *Sweeper) Finalize(ctx context.Context, p *post.Post) error {
	now := s.Now()
	p.State = post.StateFinished
	p.UpdatedAt = now
	if err := s.Posts.Save(ctx, p); err != nil {
		return fmt.Errorf("finish post %s: %w", p.ID, err)
	}

	waiting, err := s.Apps.FindByPostAndState(ctx, p.ID, application.StateWaiting)
	if err != nil {
		return fmt.Errorf("load waiting applications of %s: %w", p.ID, err)
	}
	if len(waiting) == 0 {
		return nil
	}
	for _, a := range waiting {
		a.State = application.StateFinished
		a.UpdatedAt = now
	}
	if err := s.Apps.SaveAll(ctx, waiting); err != nil {
		return fmt.Errorf("cascade finish to applications of %s: %w", p.ID, err)
	}
	return nil
}
