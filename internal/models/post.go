package models

import (
	"time"
)

// PostLabelLength is how many characters of the text a post shows as its label.
const PostLabelLength = 15

type Post struct {
	ID      int       `json:"id" db:"id"`
	Text    string    `json:"text" db:"text"`
	PubDate time.Time `json:"pub_date" db:"pub_date"`
	Author  User      `json:"author"`
	GroupID *int      `json:"group_id,omitempty" db:"group_id"`
	Group   *Group    `json:"group,omitempty"`
}

// String returns the first PostLabelLength characters of the text.
func (p Post) String() string {
	runes := []rune(p.Text)
	if len(runes) <= PostLabelLength {
		return p.Text
	}
	return string(runes[:PostLabelLength])
}

// IsAuthoredBy reports whether userID wrote the post.
func (p Post) IsAuthoredBy(userID int) bool {
	return userID > 0 && p.Author.ID == userID
}
