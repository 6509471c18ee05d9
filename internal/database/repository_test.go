package database

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	lg := logrus.New()
	lg.SetOutput(io.Discard)

	svc, err := Open(db, lg)
	require.NoError(t, err)

	return NewRepository(svc.GetDB()), mock
}

func TestGetPostNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT posts\.\*, \(SELECT COUNT\(\*\) FROM comments WHERE comments\.post_id = posts\.id\) AS comment_count FROM "posts" WHERE posts\.id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	_, err := repo.GetPost(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPostCountsComments(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`AS comment_count FROM "posts" WHERE posts\.id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "category_id", "location_id", "comment_count"}).
			AddRow(7, "Sunset", 1, 2, 3, 3))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "alice"))
	mock.ExpectQuery(`SELECT \* FROM "categories" WHERE "categories"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}).AddRow(2, "travel"))
	mock.ExpectQuery(`SELECT \* FROM "locations" WHERE "locations"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "Beach"))

	post, err := repo.GetPost(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, post.CommentCount)
	assert.Equal(t, "alice", post.Author.Username)
	require.NotNil(t, post.Location)
	assert.Equal(t, "Beach", post.Location.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCategoryBySlug(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows([]string{"id", "title", "slug", "is_published"}).
		AddRow(3, "Travel", "travel", true)
	mock.ExpectQuery(`SELECT \* FROM "categories" WHERE slug = \$1`).
		WillReturnRows(rows)

	category, err := repo.GetCategoryBySlug(context.Background(), "travel")
	require.NoError(t, err)
	assert.Equal(t, 3, category.ID)
	assert.Equal(t, "Travel", category.Title)
	assert.True(t, category.IsPublished)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicate(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uni_users_username"})

	err := repo.CreateUser(context.Background(), &models.User{Username: "alice", Email: "a@example.com", Password: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)

	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "username", dup.Field())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmails(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT "email" FROM "users" WHERE email <> ''`).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("a@example.com").AddRow("b@example.com"))

	emails, err := repo.ListEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, emails)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCommentMissing(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`DELETE FROM "comments" WHERE "comments"."id" = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteComment(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPublicPostsEmpty(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" JOIN categories`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT posts\.\*, \(SELECT COUNT\(\*\) FROM comments`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	posts, page, err := repo.ListPublicPosts(context.Background(), now, "7")
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil))

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))

	err := translate(&pgconn.PgError{Code: "23503"})
	assert.False(t, errors.Is(err, ErrDuplicate))

	err = translate(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "uni_categories_slug"})
	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "slug", dup.Field())
}
