// Package domain contains the core entities of the recipe API.
package domain

import (
	"strings"
	"time"
)

// User is an account that owns tags, ingredients, and recipes.
// Users are never hard-deleted; IsActive gates login instead.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}

// NormalizeEmail trims whitespace and lowercases the domain portion of an
// email address. The local part keeps its case; uniqueness checks compare
// the fully lowercased form separately.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
