// Package fixtures loads groups, users and posts from YAML documents.
package fixtures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"yatube/internal/models"
	"yatube/internal/store"
	"yatube/internal/utils"

	"gopkg.in/yaml.v3"
)

type File struct {
	Groups []Group `yaml:"groups"`
	Users  []User  `yaml:"users"`
	Posts  []Post  `yaml:"posts"`
}

type Group struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

type User struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Password  string `yaml:"password"`
}

// Post references its author by username and its group by slug.
type Post struct {
	Author string `yaml:"author"`
	Group  string `yaml:"group"`
	Text   string `yaml:"text"`
}

type GroupStore interface {
	Upsert(ctx context.Context, group *models.Group) error
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
}

type Stores struct {
	Groups GroupStore
	Users  UserStore
	Posts  PostStore
}

// Result counts what a load wrote.
type Result struct {
	Groups       int
	Users        int
	UsersSkipped int
	Posts        int
}

func (r Result) String() string {
	return fmt.Sprintf("groups=%d users=%d users_skipped=%d posts=%d", r.Groups, r.Users, r.UsersSkipped, r.Posts)
}

func Parse(data []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &file, nil
}

func LoadFile(ctx context.Context, path string, stores Stores) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	file, err := Parse(data)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	return Load(ctx, file, stores)
}

// NewStores returns the SQL stores bound to db, which may be a transaction.
func NewStores(db store.DBTX) Stores {
	return Stores{
		Groups: store.NewGroupStore(db),
		Users:  store.NewUserStore(db),
		Posts:  store.NewPostStore(db),
	}
}

// LoadFiles loads every file inside a single transaction: either all of
// them are written or nothing is. report is called per file once the
// file has been loaded.
func LoadFiles(ctx context.Context, db *sql.DB, paths []string, report func(path string, result Result)) error {
	return store.WithTx(ctx, db, func(tx *sql.Tx) error {
		stores := NewStores(tx)
		for _, path := range paths {
			result, err := LoadFile(ctx, path, stores)
			if err != nil {
				return err
			}
			if report != nil {
				report(path, result)
			}
		}
		return nil
	})
}

// Load writes groups first, then users, then posts. Groups are upserted by
// slug and users that already exist are skipped, so loading twice only
// duplicates posts. Load does not roll anything back; use LoadFiles for
// an all-or-nothing load.
func Load(ctx context.Context, file *File, stores Stores) (Result, error) {
	var result Result

	for _, item := range file.Groups {
		group := models.Group{
			Title:       strings.TrimSpace(item.Title),
			Slug:        strings.TrimSpace(item.Slug),
			Description: item.Description,
		}
		if group.Title == "" || group.Slug == "" {
			return result, fmt.Errorf("group %q: title and slug are required", item.Slug)
		}
		if err := stores.Groups.Upsert(ctx, &group); err != nil {
			return result, fmt.Errorf("group %s: %w", group.Slug, err)
		}
		result.Groups++
	}

	for _, item := range file.Users {
		if strings.TrimSpace(item.Username) == "" || item.Password == "" {
			return result, fmt.Errorf("user %q: username and password are required", item.Username)
		}
		hashed, err := utils.HashPassword(item.Password)
		if err != nil {
			return result, fmt.Errorf("user %s: %w", item.Username, err)
		}
		user := models.User{
			Username:  strings.TrimSpace(item.Username),
			Email:     item.Email,
			FirstName: item.FirstName,
			LastName:  item.LastName,
			Password:  hashed,
		}
		err = stores.Users.Create(ctx, &user)
		if errors.Is(err, store.ErrDuplicate) {
			result.UsersSkipped++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("user %s: %w", user.Username, err)
		}
		result.Users++
	}

	authors := map[string]*models.User{}
	groups := map[string]*models.Group{}
	for i, item := range file.Posts {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			return result, fmt.Errorf("post %d: text is required", i+1)
		}

		author, ok := authors[item.Author]
		if !ok {
			found, err := stores.Users.GetByUsername(ctx, item.Author)
			if err != nil {
				return result, fmt.Errorf("post %d: author %q: %w", i+1, item.Author, err)
			}
			author = found
			authors[item.Author] = found
		}

		post := models.Post{Text: text, Author: *author}
		if item.Group != "" {
			group, ok := groups[item.Group]
			if !ok {
				found, err := stores.Groups.GetBySlug(ctx, item.Group)
				if err != nil {
					return result, fmt.Errorf("post %d: group %q: %w", i+1, item.Group, err)
				}
				group = found
				groups[item.Group] = found
			}
			post.GroupID = &group.ID
		}

		if err := stores.Posts.Create(ctx, &post); err != nil {
			return result, fmt.Errorf("post %d: %w", i+1, err)
		}
		result.Posts++
	}

	return result, nil
}
