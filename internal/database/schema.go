package database

import (
	"fmt"
	"log"
)

// CreateTables creates all required tables in the database
func CreateTables() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"users", createUsersTable},
		{"post_groups", createGroupsTable},
		{"posts", createPostsTable},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("create %s table: %w", step.name, err)
		}
		log.Printf("Table %s is ready", step.name)
	}
	return nil
}

func createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(150) UNIQUE NOT NULL,
		email VARCHAR(254) NOT NULL DEFAULT '',
		first_name VARCHAR(150) NOT NULL DEFAULT '',
		last_name VARCHAR(150) NOT NULL DEFAULT '',
		password VARCHAR(255) NOT NULL,
		date_joined TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := DB.Exec(query)
	return err
}

func createGroupsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS post_groups (
		id SERIAL PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		slug VARCHAR(100) UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);
	`

	_, err := DB.Exec(query)
	return err
}

func createPostsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS posts (
		id SERIAL PRIMARY KEY,
		text TEXT NOT NULL,
		pub_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		group_id INTEGER REFERENCES post_groups(id) ON DELETE SET NULL
	);
	`

	if _, err := DB.Exec(query); err != nil {
		return err
	}
	return ensurePostsSchema()
}

func ensurePostsSchema() error {
	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS posts_pub_date_idx ON posts(pub_date DESC, id DESC)`); err != nil {
		return fmt.Errorf("ensure posts pub_date index: %w", err)
	}

	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS posts_group_pub_date_idx ON posts(group_id, pub_date DESC)`); err != nil {
		return fmt.Errorf("ensure posts group/pub_date index: %w", err)
	}

	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS posts_author_pub_date_idx ON posts(author_id, pub_date DESC)`); err != nil {
		return fmt.Errorf("ensure posts author/pub_date index: %w", err)
	}
	return nil
}
