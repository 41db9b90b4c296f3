package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"yatube/internal/models"
)

// PostFilter narrows a listing down to one group and/or one author.
type PostFilter struct {
	GroupID  *int
	AuthorID *int
}

func (f PostFilter) where(args []any) (string, []any) {
	conditions := make([]string, 0, 2)
	if f.GroupID != nil {
		args = append(args, *f.GroupID)
		conditions = append(conditions, fmt.Sprintf("p.group_id = $%d", len(args)))
	}
	if f.AuthorID != nil {
		args = append(args, *f.AuthorID)
		conditions = append(conditions, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

const selectPostColumns = `
	SELECT p.id, p.text, p.pub_date,
	       u.id, u.username, u.first_name, u.last_name,
	       g.id, g.title, g.slug, g.description
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN post_groups g ON g.id = p.group_id`

type PostStore struct {
	DB DBTX
}

func NewPostStore(db DBTX) *PostStore {
	return &PostStore{DB: db}
}

// Count returns how many posts match the filter.
func (s *PostStore) Count(ctx context.Context, filter PostFilter) (int, error) {
	where, args := filter.where(nil)
	query := `SELECT COUNT(*) FROM posts p` + where

	var total int
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// List returns one window of matching posts, newest first.
func (s *PostStore) List(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, error) {
	where, args := filter.where(nil)
	args = append(args, limit, offset)
	query := selectPostColumns + where +
		fmt.Sprintf(" ORDER BY p.pub_date DESC, p.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Get loads a single post with its author and group.
func (s *PostStore) Get(ctx context.Context, id int) (*models.Post, error) {
	row := s.DB.QueryRowContext(ctx, selectPostColumns+` WHERE p.id = $1`, id)
	post, err := scanPost(row)
	if err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// Create inserts the post and fills in its id and pub_date.
func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	query := `INSERT INTO posts (text, author_id, group_id) VALUES ($1, $2, $3) RETURNING id, pub_date`
	err := s.DB.QueryRowContext(ctx, query, post.Text, post.Author.ID, nullInt(post.GroupID)).
		Scan(&post.ID, &post.PubDate)
	return translateError(err)
}

// Update rewrites text and group only; author and pub_date never change.
func (s *PostStore) Update(ctx context.Context, post *models.Post) error {
	query := `UPDATE posts SET text = $1, group_id = $2 WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, post.Text, nullInt(post.GroupID), post.ID)
	if err != nil {
		return translateError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (models.Post, error) {
	var post models.Post
	var groupID sql.NullInt64
	var groupTitle, groupSlug, groupDescription sql.NullString

	err := row.Scan(
		&post.ID,
		&post.Text,
		&post.PubDate,
		&post.Author.ID,
		&post.Author.Username,
		&post.Author.FirstName,
		&post.Author.LastName,
		&groupID,
		&groupTitle,
		&groupSlug,
		&groupDescription,
	)
	if err != nil {
		return models.Post{}, err
	}

	if groupID.Valid {
		id := int(groupID.Int64)
		post.GroupID = &id
		post.Group = &models.Group{
			ID:          id,
			Title:       groupTitle.String,
			Slug:        groupSlug.String,
			Description: groupDescription.String,
		}
	}
	return post, nil
}
