package models

import (
	"strings"
	"time"
)

// Role is an entry of the backend's role reference set. Name is the unique key.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Active      bool   `json:"is_active"`
}

// Account is the profile returned by GET /users/me.
type Account struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Gender      Gender    `json:"gender"`
	BirthDate   *Date     `json:"birth_date,omitempty"`
	Verified    bool      `json:"is_verified"`
	Roles       []Role    `json:"roles"`
	CreatedAt   Timestamp `json:"created_at"`
}

// HasRole reports whether the account holds an active role named name
// (case-insensitive).
func (a Account) HasRole(name string) bool {
	for _, r := range a.Roles {
		if r.Active && strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

// RoleNames lists the names of the account's active roles.
func (a Account) RoleNames() []string {
	names := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		if r.Active {
			names = append(names, r.Name)
		}
	}
	return names
}

// Clone returns a deep copy so callers cannot mutate a session snapshot.
func (a Account) Clone() Account {
	c := a
	if a.Roles != nil {
		c.Roles = append([]Role(nil), a.Roles...)
	}
	if a.BirthDate != nil {
		d := *a.BirthDate
		c.BirthDate = &d
	}
	return c
}

// Session is an authenticated bearer credential together with the profile
// snapshot fetched right after it was obtained.
type Session struct {
	Token     string
	Account   Account
	Persisted bool
	StartedAt time.Time
}

// Clone returns a deep copy of s, or nil.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Account = s.Account.Clone()
	return &c
}
