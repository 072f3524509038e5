package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ymate/internal/core/application"
	"ymate/internal/core/notification"
	"ymate/internal/core/post"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

var postColumns = []string{"id", "domain", "owner_id", "title", "description", "deadline", "link", "attributes", "state", "created_at", "updated_at"}

func postRow(rows *sqlmock.Rows, id uuid.UUID, state post.State, created time.Time) *sqlmock.Rows {
	return rows.AddRow(id.String(), "taxi", uuid.Must(uuid.NewV4()).String(), "Airport", "desc",
		created.Add(time.Hour), "", []byte(`{"departure":"Gate"}`), string(state), created, created)
}

func TestPostRepository_FindByIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepositoryDatabase(db)

	mock.ExpectQuery("SELECT \\* FROM `posts` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(postColumns))

	p, err := repo.FindByID(context.Background(), uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_FindByState(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepositoryDatabase(db)
	id := uuid.Must(uuid.NewV4())
	created := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT \\* FROM `posts` WHERE domain = \\? AND state = \\? ORDER BY created_at DESC").
		WithArgs("taxi", "ACTIVE").
		WillReturnRows(postRow(sqlmock.NewRows(postColumns), id, post.StateActive, created))

	posts, err := repo.FindByState(context.Background(), post.DomainTaxi, post.StateActive)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, id, posts[0].ID)
	assert.Equal(t, "Gate", posts[0].Attributes["departure"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_LocksAndCommits(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTransactor(db)
	apps := NewApplicationRepositoryDatabase(db)
	id := uuid.Must(uuid.NewV4())
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `applications` WHERE id = \\?.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "applicant_id", "message", "details", "state", "created_at", "updated_at"}).
			AddRow(id.String(), uuid.Must(uuid.NewV4()).String(), uuid.Must(uuid.NewV4()).String(), "hi", "", "WAITING", now, now))
	mock.ExpectExec("UPDATE `applications` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		a, err := apps.FindByID(ctx, id)
		if err != nil {
			return err
		}
		require.NotNil(t, a)
		a.State = application.StateAccepted
		return apps.Save(ctx, a)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTransactor(db)
	posts := NewPostRepositoryDatabase(db)
	boom := errors.New("guard failed")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `posts`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		p := &post.Post{ID: uuid.Must(uuid.NewV4()), Domain: post.DomainDelivery, State: post.StateActive, Deadline: time.Now()}
		if err := posts.Create(ctx, p); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDOutsideTransactionDoesNotLock(t *testing.T) {
	db, mock := newMockDB(t)
	apps := NewApplicationRepositoryDatabase(db)

	mock.ExpectQuery("SELECT \\* FROM `applications` WHERE id = \\? ORDER BY `applications`.`id` LIMIT (\\?|1)$").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	a, err := apps.FindByID(context.Background(), uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByIDsEmptySkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)
	users, err := NewUserRepositoryDatabase(db).FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByStudentIDError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE student_id = \\?").
		WillReturnError(errors.New("connection refused"))

	u, err := NewUserRepositoryDatabase(db).FindByStudentID(context.Background(), 42)
	assert.Error(t, err)
	assert.Nil(t, u)
}

func TestNotificationRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepositoryDatabase(db)
	userID := uuid.Must(uuid.NewV4())

	mock.ExpectExec("INSERT INTO `notification_records`").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Save(context.Background(), &notification.Record{
		ID: uuid.Must(uuid.NewV4()), UserID: userID, Type: "taxi", TargetID: uuid.Must(uuid.NewV4()), Title: "t",
	}))

	mock.ExpectQuery("SELECT \\* FROM `notification_records` WHERE user_id = \\? ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "title"}).
			AddRow(uuid.Must(uuid.NewV4()).String(), userID.String(), "taxi", "t"))
	records, err := repo.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, userID, records[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func finishedApps(postID uuid.UUID, n int) []*application.Application {
	now := time.Now()
	apps := make([]*application.Application, 0, n)
	for i := 0; i < n; i++ {
		apps = append(apps, &application.Application{
			ID:          uuid.Must(uuid.NewV4()),
			PostID:      postID,
			ApplicantID: uuid.Must(uuid.NewV4()),
			Message:     "count me in",
			State:       application.StateFinished,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return apps
}

func TestApplicationRepository_SaveAllUpdatesEachInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTransactor(db)
	repo := NewApplicationRepositoryDatabase(db)
	apps := finishedApps(uuid.Must(uuid.NewV4()), 2)

	mock.ExpectBegin()
	for _, a := range apps {
		mock.ExpectExec("UPDATE `applications` SET").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				"FINISHED", sqlmock.AnyArg(), sqlmock.AnyArg(), a.ID.String()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return repo.SaveAll(ctx, apps)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_SaveAllStopsAtFirstFailure(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTransactor(db)
	repo := NewApplicationRepositoryDatabase(db)
	apps := finishedApps(uuid.Must(uuid.NewV4()), 3)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `applications` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `applications` SET").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return repo.SaveAll(ctx, apps)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), apps[1].ID.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
