package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ymate/internal/adapters/memory"
	"ymate/internal/core/application"
	"ymate/internal/core/errs"
	"ymate/internal/core/lifecycle"
	"ymate/internal/core/post"
)

var now = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

type countingApps struct {
	*memory.ApplicationRepository
	saveAll int
}

func (c *countingApps) SaveAll(ctx context.Context, apps []*application.Application) error {
	c.saveAll++
	return c.ApplicationRepository.SaveAll(ctx, apps)
}

func seed(t *testing.T, store *memory.Store, deadline time.Time, appStates ...application.State) (*post.Post, []*application.Application) {
	t.Helper()
	ctx := context.Background()
	p := &post.Post{ID: uuid.Must(uuid.NewV4()), Domain: post.DomainTaxi, OwnerID: uuid.Must(uuid.NewV4()), Deadline: deadline, State: post.StateActive}
	require.NoError(t, store.Posts().Create(ctx, p))
	var apps []*application.Application
	for _, st := range appStates {
		a := &application.Application{ID: uuid.Must(uuid.NewV4()), PostID: p.ID, ApplicantID: uuid.Must(uuid.NewV4()), Message: "m", State: st}
		require.NoError(t, store.Applications().Create(ctx, a))
		apps = append(apps, a)
	}
	return p, apps
}

func TestSweep_FinalizesExpiredPostAndCascades(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	p, apps := seed(t, store, now.Add(-time.Minute), application.StateWaiting, application.StateAccepted, application.StateWaiting)

	s := lifecycle.NewSweeper(store.Posts(), store.Applications())
	s.Now = func() time.Time { return now }

	changed, err := s.Sweep(ctx, p)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, post.StateFinished, p.State)

	stored, err := store.Posts().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, post.StateFinished, stored.State)

	want := []application.State{application.StateFinished, application.StateAccepted, application.StateFinished}
	for i, a := range apps {
		got, err := store.Applications().FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, want[i], got.State)
	}
}

func TestSweep_DeadlineEqualToNowCountsAsExpired(t *testing.T) {
	store := memory.NewStore()
	p, _ := seed(t, store, now)
	s := lifecycle.NewSweeper(store.Posts(), store.Applications())
	s.Now = func() time.Time { return now }

	changed, err := s.Sweep(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestSweep_IsIdempotent(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	p, _ := seed(t, store, now.Add(-time.Hour), application.StateWaiting)

	apps := &countingApps{ApplicationRepository: store.Applications()}
	s := lifecycle.NewSweeper(store.Posts(), apps)
	s.Now = func() time.Time { return now }

	changed, err := s.Sweep(ctx, p)
	require.NoError(t, err)
	require.True(t, changed)
	updated := p.UpdatedAt

	changed, err = s.Sweep(ctx, p)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, apps.saveAll)
	assert.Equal(t, updated, p.UpdatedAt)
}

func TestSweep_LeavesOpenAndTerminalPostsAlone(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	s := lifecycle.NewSweeper(store.Posts(), store.Applications())
	s.Now = func() time.Time { return now }

	open, _ := seed(t, store, now.Add(time.Hour))
	changed, err := s.Sweep(ctx, open)
	require.NoError(t, err)
	assert.False(t, changed)

	deleted, _ := seed(t, store, now.Add(-time.Hour))
	deleted.State = post.StateDeleted
	changed, err = s.Sweep(ctx, deleted)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, post.StateDeleted, deleted.State)
}

func TestSweepAll_CountsFinalized(t *testing.T) {
	store := memory.NewStore()
	s := lifecycle.NewSweeper(store.Posts(), store.Applications())
	s.Now = func() time.Time { return now }

	a, _ := seed(t, store, now.Add(-time.Hour))
	b, _ := seed(t, store, now.Add(time.Hour))
	c, _ := seed(t, store, now.Add(-2*time.Hour))

	n, err := s.SweepAll(context.Background(), []*post.Post{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAuthorize(t *testing.T) {
	owner := uuid.Must(uuid.NewV4())
	applicant := uuid.Must(uuid.NewV4())
	stranger := uuid.Must(uuid.NewV4())
	p := &post.Post{OwnerID: owner}
	a := &application.Application{ApplicantID: applicant}

	cases := []struct {
		caller uuid.UUID
		action lifecycle.Action
		allow  bool
	}{
		{owner, lifecycle.ActionUpdate, true},
		{stranger, lifecycle.ActionUpdate, false},
		{owner, lifecycle.ActionDelete, true},
		{applicant, lifecycle.ActionDelete, false},
		{owner, lifecycle.ActionFinish, true},
		{stranger, lifecycle.ActionFinish, false},
		{owner, lifecycle.ActionAccept, true},
		{applicant, lifecycle.ActionAccept, false},
		{owner, lifecycle.ActionReject, true},
		{stranger, lifecycle.ActionReject, false},
		{applicant, lifecycle.ActionCancel, true},
		{owner, lifecycle.ActionCancel, false},
		{applicant, lifecycle.ActionApply, true},
		{owner, lifecycle.ActionApply, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.action), func(t *testing.T) {
			err := lifecycle.Authorize(tc.caller, tc.action, p, a)
			if tc.allow {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errs.Is(err, errs.KindNoAuth))
		})
	}
}

func TestDeletable(t *testing.T) {
	mk := func(states ...application.State) []*application.Application {
		var out []*application.Application
		for _, st := range states {
			out = append(out, &application.Application{State: st})
		}
		return out
	}
	assert.True(t, lifecycle.Deletable(nil))
	assert.True(t, lifecycle.Deletable(mk(application.StateCanceled, application.StateRejected)))
	for _, blocking := range []application.State{application.StateWaiting, application.StateAccepted, application.StateFinished} {
		assert.False(t, lifecycle.Deletable(mk(application.StateCanceled, blocking)), blocking)
	}
}
