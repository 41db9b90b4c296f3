package models

import (
	"strings"
	"time"
)

// User represents a user in the system
type User struct {
	ID         int       `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	Email      string    `json:"email" db:"email"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Password   string    `json:"-" db:"password"`
	DateJoined time.Time `json:"date_joined" db:"date_joined"`
}

// FullName falls back to the username when no name was given.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (u User) String() string {
	return u.Username
}
