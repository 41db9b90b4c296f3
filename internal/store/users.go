package store

import (
	"context"
	"time"

	"yatube/internal/models"
)

type UserStore struct {
	DB DBTX
}

func NewUserStore(db DBTX) *UserStore {
	return &UserStore{DB: db}
}

// Create stores a user whose Password is already hashed. A taken username
// yields ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, first_name, last_name, password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date_joined
	`
	err := s.DB.QueryRowContext(ctx, query, user.Username, user.Email, user.FirstName, user.LastName, user.Password).
		Scan(&user.ID, &user.DateJoined)
	return translateError(err)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, first_name, last_name, password, date_joined FROM users WHERE username = $1`
	err := s.DB.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Password,
		&user.DateJoined,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// AuthorStat is a user together with how many posts they wrote.
type AuthorStat struct {
	ID         int       `json:"id"`
	Username   string    `json:"username"`
	PostCount  int       `json:"post_count"`
	DateJoined time.Time `json:"date_joined"`
}

// ListAuthors pages through users, newest-joined first, with post counts.
func (s *UserStore) ListAuthors(ctx context.Context, limit, offset int) ([]AuthorStat, int, error) {
	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT u.id, u.username, u.date_joined, COUNT(p.id)::int AS post_count
		FROM users u
		LEFT JOIN posts p ON p.author_id = u.id
		GROUP BY u.id, u.username, u.date_joined
		ORDER BY u.date_joined DESC, u.id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	authors := make([]AuthorStat, 0)
	for rows.Next() {
		var item AuthorStat
		if err := rows.Scan(&item.ID, &item.Username, &item.DateJoined, &item.PostCount); err != nil {
			return nil, 0, err
		}
		authors = append(authors, item)
	}
	return authors, total, rows.Err()
}
