package postapp_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ymate/internal/adapters/memory"
	"ymate/internal/core/application"
	"ymate/internal/core/category"
	"ymate/internal/core/errs"
	"ymate/internal/core/lifecycle"
	"ymate/internal/core/post"
	postapp "ymate/internal/core/post/service"
	"ymate/internal/core/user"
	postPort "ymate/internal/ports/post"
)

var now = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	svc   *postapp.PostService
}

func newFixture(t *testing.T, cat category.Category) *fixture {
	t.Helper()
	store := memory.NewStore()
	sweeper := lifecycle.NewSweeper(store.Posts(), store.Applications())
	sweeper.Now = func() time.Time { return now }
	svc := postapp.NewPostService(cat, store.Posts(), store.Applications(), store.Users(), store, sweeper, zap.NewNop())
	f := &fixture{store: store, svc: svc}
	f.addUser(t, 1, "owner")
	f.addUser(t, 2, "other")
	return f
}

func (f *fixture) addUser(t *testing.T, studentID int64, nickname string) *user.User {
	t.Helper()
	u := &user.User{ID: uuid.Must(uuid.NewV4()), StudentID: studentID, Nickname: nickname}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func (f *fixture) addApp(t *testing.T, postID string, state application.State) *application.Application {
	t.Helper()
	a := &application.Application{
		ID:          uuid.Must(uuid.NewV4()),
		PostID:      uuid.FromStringOrNil(postID),
		ApplicantID: uuid.Must(uuid.NewV4()),
		Message:     "hi",
		State:       state,
	}
	require.NoError(t, f.store.Applications().Create(context.Background(), a))
	return a
}

func taxiInput(deadline time.Time) postPort.PostInput {
	return postPort.PostInput{
		Title:       "Airport run",
		Description: "Leaving from the main gate",
		Deadline:    &deadline,
		Attributes:  post.Attributes{"departure": "Main gate", "arrival_code": "ICN", "fare": "12000", "bogus": "x"},
	}
}

func TestCreatePost(t *testing.T) {
	f := newFixture(t, category.Taxi{})
	dto, err := f.svc.CreatePost(context.Background(), 1, taxiInput(now.Add(time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, "ACTIVE", dto.State)
	assert.Equal(t, "taxi", dto.Domain)
	assert.Equal(t, "owner", dto.OwnerNickname)
	assert.Equal(t, post.Attributes{"departure": "Main gate", "arrival_code": "ICN", "fare": "12000"}, dto.Attributes)
}

func TestCreatePost_Validation(t *testing.T) {
	f := newFixture(t, category.Taxi{})
	ctx := context.Background()

	noTitle := taxiInput(now.Add(time.Hour))
	noTitle.Title = "  "
	noDeadline := taxiInput(now)
	noDeadline.Deadline = nil
	noPair := taxiInput(now.Add(time.Hour))
	noPair.Attributes = post.Attributes{"departure": "Main gate"}

	for name, in := range map[string]postPort.PostInput{"title": noTitle, "deadline": noDeadline, "arrival": noPair} {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.CreatePost(ctx, 1, in)
			assert.True(t, errs.Is(err, errs.KindInsufficientData), err)
		})
	}

	_, err := f.svc.CreatePost(ctx, 99, taxiInput(now.Add(time.Hour)))
	assert.True(t, errs.Is(err, errs.KindMemberNotFound))
}

func TestUpdatePost_ContentOnly(t *testing.T) {
	f := newFixture(t, category.Taxi{})
	ctx := context.Background()
	created, err := f.svc.CreatePost(ctx, 1, taxiInput(now.Add(time.Hour)))
	require.NoError(t, err)

	in := taxiInput(now.Add(2 * time.Hour))
	in.Title = "Airport run (2 seats left)"
	updated, err := f.svc.UpdatePost(ctx, 1, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Airport run (2 seats left)", updated.Title)
	assert.Equal(t, "ACTIVE", updated.State)

	_, err = f.svc.UpdatePost(ctx, 2, created.ID, in)
	assert.True(t, errs.Is(err, errs.KindNoAuth))

	_, err = f.svc.UpdatePost(ctx, 1, uuid.Must(uuid.NewV4()).String(), in)
	assert.True(t, errs.Is(err, errs.KindNotFound))

	bad := in
	bad.Description = ""
	_, err = f.svc.UpdatePost(ctx, 1, created.ID, bad)
	assert.True(t, errs.Is(err, errs.KindInsufficientData))
}

func TestPostsAreScopedToTheirCategory(t *testing.T) {
	f := newFixture(t, category.Taxi{})
	ctx := context.Background()
	created, err := f.svc.CreatePost(ctx, 1, taxiInput(now.Add(time.Hour)))
	require.NoError(t, err)

	delivery := *f.svc
	delivery.Category = category.Delivery{}
	_, err = delivery.GetPost(ctx, created.ID)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestDeletePost_Guard(t *testing.T) {
	f := newFixture(t, category.Taxi{})
	ctx := context.Background()
	created, err := f.svc.CreatePost(ctx, 1, taxiInput(now.Add(time.Hour)))
	require.NoError(t, err)

	f.addApp(t, created.ID, application.StateRejected)
	waiting := f.addApp(t, created.ID, application.StateWaiting)

	assert.True(t, errs.Is(f.svc.DeletePost(ctx, 2, created.ID), errs.KindNoAuth))
	assert.True(t, errs.Is(f.svc.DeletePost(ctx, 1, created.ID), errs.KindConflict))

	waiting.State = application.StateCanceled
	require.NoError(t, f.store.Applications().Save(ctx, waiting))
	require.NoError(t, f.svc.DeletePost(ctx, 1, created.ID))

	_, err = f.svc.GetPost(ctx, created.ID)
	assert.True(t, errs.Is(err, errs.KindConflict))
	assert.True(t, errs.Is(f.svc.DeletePost(ctx, 1, created.ID), errs.KindConflict))
	assert.True(t, errs.Is(f.svc.FinishPost(ctx, 1, created.ID), errs.KindConflict))
}

func TestDeletePost_FinishedApplicationBlocks(t *testing.T) {
	f := newFixture(t, category.Taxi{})
	ctx := context.Background()
	created, err := f.svc.CreatePost(ctx, 1, taxiInput(now.Add(time.Hour)))
	require.NoError(t, err)
	f.addApp(t, created.ID, application.StateFinished)

	assert.True(t, errs.Is(f.svc.DeletePost(ctx, 1, created.ID), errs.KindConflict))
}

func TestFinishPost(t *testing.T) {
	f := newFixture(t, category.Taxi{})
	ctx := context.Background()
	created, err := f.svc.CreatePost(ctx, 1, taxiInput(now.Add(time.Hour)))
	require.NoError(t, err)
	waiting := f.addApp(t, created.ID, application.StateWaiting)
	accepted := f.addApp(t, created.ID, application.StateAccepted)

	assert.True(t, errs.Is(f.svc.FinishPost(ctx, 2, created.ID), errs.KindNoAuth))
	require.NoError(t, f.svc.FinishPost(ctx, 1, created.ID))
	assert.True(t, errs.Is(f.svc.FinishPost(ctx, 1, created.ID), errs.KindConflict))

	got, err := f.svc.GetPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "FINISHED", got.State)
	states := map[string]string{}
	for _, a := range got.Applications {
		states[a.ID] = a.State
	}
	assert.Equal(t, "FINISHED", states[waiting.ID.String()])
	assert.Equal(t, "ACCEPTED", states[accepted.ID.String()])
}

func TestListPosts_SweepsExpired(t *testing.T) {
	f := newFixture(t, category.Taxi{})
	ctx := context.Background()
	expired, err := f.svc.CreatePost(ctx, 1, taxiInput(now.Add(-time.Minute)))
	require.NoError(t, err)
	open, err := f.svc.CreatePost(ctx, 1, taxiInput(now.Add(time.Hour)))
	require.NoError(t, err)
	waiting := f.addApp(t, expired.ID, application.StateWaiting)

	list, err := f.svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, list.Active, 1)
	require.Len(t, list.Finished, 1)
	assert.Empty(t, list.Deleted)
	assert.Equal(t, open.ID, list.Active[0].ID)
	assert.Equal(t, expired.ID, list.Finished[0].ID)

	a, err := f.store.Applications().FindByID(ctx, waiting.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StateFinished, a.State)
}

func TestListPosts_FilterAndOrder(t *testing.T) {
	f := newFixture(t, category.Taxi{})
	ctx := context.Background()
	first, err := f.svc.CreatePost(ctx, 1, taxiInput(now.Add(time.Hour)))
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := f.svc.CreatePost(ctx, 2, taxiInput(now.Add(time.Hour)))
	require.NoError(t, err)

	list, err := f.svc.ListPosts(ctx, post.StateActive)
	require.NoError(t, err)
	require.Len(t, list.Active, 2)
	assert.Equal(t, second.ID, list.Active[0].ID)
	assert.Equal(t, first.ID, list.Active[1].ID)
	assert.Empty(t, list.Finished)
}

func TestGetPost_SweepsExpired(t *testing.T) {
	f := newFixture(t, category.Delivery{})
	ctx := context.Background()
	deadline := now.Add(-time.Second)
	created, err := f.svc.CreatePost(ctx, 1, postPort.PostInput{
		Title: "Pizza", Description: "Two large", Deadline: &deadline,
		Attributes: post.Attributes{"food_code": "PZ", "location": "Dorm 3"},
	})
	require.NoError(t, err)

	got, err := f.svc.GetPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "FINISHED", got.State)
	assert.Equal(t, "owner", got.OwnerNickname)
}

func TestListMyPosts(t *testing.T) {
	f := newFixture(t, category.Taxi{})
	ctx := context.Background()
	_, err := f.svc.CreatePost(ctx, 1, taxiInput(now.Add(time.Hour)))
	require.NoError(t, err)
	_, err = f.svc.CreatePost(ctx, 2, taxiInput(now.Add(-time.Hour)))
	require.NoError(t, err)

	mine, err := f.svc.ListMyPosts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "FINISHED", mine[0].State)

	_, err = f.svc.ListMyPosts(ctx, 42)
	assert.True(t, errs.Is(err, errs.KindMemberNotFound))
}

func TestParseStates(t *testing.T) {
	states, err := postapp.ParseStates("active, Finished")
	require.NoError(t, err)
	assert.Equal(t, []post.State{post.StateActive, post.StateFinished}, states)

	states, err = postapp.ParseStates("")
	require.NoError(t, err)
	assert.Nil(t, states)

	_, err = postapp.ParseStates("open")
	assert.True(t, errs.Is(err, errs.KindInsufficientData))
}
