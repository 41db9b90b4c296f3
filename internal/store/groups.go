package store

import (
	"context"

	"yatube/internal/models"
)

type GroupStore struct {
	DB DBTX
}

func NewGroupStore(db DBTX) *GroupStore {
	return &GroupStore{DB: db}
}

func (s *GroupStore) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	query := `SELECT id, title, slug, description FROM post_groups WHERE slug = $1`
	err := s.DB.QueryRowContext(ctx, query, slug).Scan(&group.ID, &group.Title, &group.Slug, &group.Description)
	if err != nil {
		return nil, translateError(err)
	}
	return &group, nil
}

// List returns every group ordered by title, used for form choices.
func (s *GroupStore) List(ctx context.Context) ([]models.Group, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, title, slug, description FROM post_groups ORDER BY title ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.Title, &group.Slug, &group.Description); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// Upsert creates the group or refreshes title and description of the one
// holding the same slug.
func (s *GroupStore) Upsert(ctx context.Context, group *models.Group) error {
	query := `
		INSERT INTO post_groups (title, slug, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE
		SET title = EXCLUDED.title, description = EXCLUDED.description
		RETURNING id
	`
	err := s.DB.QueryRowContext(ctx, query, group.Title, group.Slug, group.Description).Scan(&group.ID)
	return translateError(err)
}
