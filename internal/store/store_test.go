package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var postColumns = []string{
	"id", "text", "pub_date",
	"author_id", "username", "first_name", "last_name",
	"group_id", "title", "slug", "description",
}

func intPtr(v int) *int { return &v }

func TestPostStoreCountWithoutFilter(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM posts p`) + `$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(15))

	total, err := NewPostStore(db).Count(context.Background(), PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, 15, total)
}

func TestPostStoreCountByGroupAndAuthor(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM posts p WHERE p.group_id = $1 AND p.author_id = $2`)).
		WithArgs(3, 7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	total, err := NewPostStore(db).Count(context.Background(), PostFilter{GroupID: intPtr(3), AuthorID: intPtr(7)})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestPostStoreListNewestFirstWithGroupJoin(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.author_id = $1 ORDER BY p.pub_date DESC, p.id DESC LIMIT $2 OFFSET $3`)).
		WithArgs(7, 10, 0).
		WillReturnRows(
			sqlmock.NewRows(postColumns).
				AddRow(2, "Second post", now, 7, "MikeyMouse", "", "", 3, "Mouses", "mouses", "About mice").
				AddRow(1, "First post", now.Add(-time.Hour), 7, "MikeyMouse", "", "", nil, nil, nil, nil),
		)

	posts, err := NewPostStore(db).List(context.Background(), PostFilter{AuthorID: intPtr(7)}, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, 2, posts[0].ID)
	assert.Equal(t, "MikeyMouse", posts[0].Author.Username)
	require.NotNil(t, posts[0].Group)
	assert.Equal(t, "mouses", posts[0].Group.Slug)
	require.NotNil(t, posts[0].GroupID)
	assert.Equal(t, 3, *posts[0].GroupID)

	assert.Nil(t, posts[1].Group)
	assert.Nil(t, posts[1].GroupID)
}

func TestPostStoreGetMissingReturnsErrNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.id = $1`)).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(postColumns))

	post, err := NewPostStore(db).Get(context.Background(), 42)
	assert.Nil(t, post)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostStoreCreateFillsIDAndPubDate(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO posts (text, author_id, group_id) VALUES ($1, $2, $3) RETURNING id, pub_date`)).
		WithArgs("New post", 7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pub_date"}).AddRow(11, now))

	post := &models.Post{Text: "New post", Author: models.User{ID: 7}, GroupID: intPtr(3)}
	require.NoError(t, NewPostStore(db).Create(context.Background(), post))
	assert.Equal(t, 11, post.ID)
	assert.Equal(t, now, post.PubDate)
}

func TestPostStoreCreateWithoutGroupSendsNull(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO posts`)).
		WithArgs("No group", 7, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pub_date"}).AddRow(12, time.Now()))

	post := &models.Post{Text: "No group", Author: models.User{ID: 7}}
	require.NoError(t, NewPostStore(db).Create(context.Background(), post))
	assert.Equal(t, 12, post.ID)
}

func TestPostStoreUpdateTouchesTextAndGroupOnly(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET text = $1, group_id = $2 WHERE id = $3`)).
		WithArgs("Edited", 3, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	post := &models.Post{ID: 5, Text: "Edited", GroupID: intPtr(3)}
	require.NoError(t, NewPostStore(db).Update(context.Background(), post))
}

func TestPostStoreUpdateMissingReturnsErrNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts`)).
		WithArgs("Edited", nil, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewPostStore(db).Update(context.Background(), &models.Post{ID: 99, Text: "Edited"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupStoreGetBySlug(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, slug, description FROM post_groups WHERE slug = $1`)).
		WithArgs("mouses").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "description"}).AddRow(1, "Mouses", "mouses", "About mice"))

	group, err := NewGroupStore(db).GetBySlug(context.Background(), "mouses")
	require.NoError(t, err)
	assert.Equal(t, "Mouses", group.Title)
}

func TestGroupStoreGetBySlugMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`FROM post_groups WHERE slug`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := NewGroupStore(db).GetBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupStoreUpsertReturnsID(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`INSERT INTO post_groups .* ON CONFLICT \(slug\) DO UPDATE`).
		WithArgs("Presidents", "presidents", "About presidents").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	group := &models.Group{Title: "Presidents", Slug: "presidents", Description: "About presidents"}
	require.NoError(t, NewGroupStore(db).Upsert(context.Background(), group))
	assert.Equal(t, 4, group.ID)
}

func TestUserStoreCreateDuplicateUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("MikeyMouse", "", "", "", "hash").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := NewUserStore(db).Create(context.Background(), &models.User{Username: "MikeyMouse", Password: "hash"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserStoreGetByUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	joined := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
		WithArgs("MikeyMouse").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "username", "email", "first_name", "last_name", "password", "date_joined"}).
				AddRow(7, "MikeyMouse", "mikey@example.com", "Mikey", "Mouse", "hash", joined),
		)

	user, err := NewUserStore(db).GetByUsername(context.Background(), "MikeyMouse")
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "Mikey Mouse", user.FullName())
}

func TestUserStoreListAuthors(t *testing.T) {
	db, mock := setupMockDB(t)
	joined := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT u.id, u.username, u.date_joined, COUNT\(p.id\)`).
		WithArgs(2, 0).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "username", "date_joined", "post_count"}).
				AddRow(9, "SpiderMan", joined, 0).
				AddRow(7, "MikeyMouse", joined.Add(-time.Hour), 12),
		)

	authors, total, err := NewUserStore(db).ListAuthors(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, authors, 2)
	assert.Equal(t, 12, authors[1].PostCount)
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE posts SET text`).
		WithArgs("Edited", nil, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		return NewPostStore(tx).Update(context.Background(), &models.Post{ID: 1, Text: "Edited"})
	})
	require.NoError(t, err)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO post_groups`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectRollback()

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if err := NewGroupStore(tx).Upsert(context.Background(), &models.Group{Title: "Cats", Slug: "cats"}); err != nil {
			return err
		}
		return ErrNotFound
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
