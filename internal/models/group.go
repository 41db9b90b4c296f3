package models

// Group is a named category of posts, looked up by its slug.
type Group struct {
	ID          int    `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`
}

func (g Group) String() string {
	return g.Title
}
