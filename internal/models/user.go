// Package models contains data structures for the application's domain models.
package models

import "time"

// User is an account as returned by the auth endpoints.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profileImage,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Followers    []string  `json:"followers"`
	Following    []string  `json:"following"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.Followers = cloneStrings(u.Followers)
	out.Following = cloneStrings(u.Following)
	return &out
}

// Normalize removes the user's own id from its followers and following sets
// and collapses duplicates.
func (u *User) Normalize() {
	u.Followers = dedupeWithout(u.Followers, u.ID)
	u.Following = dedupeWithout(u.Following, u.ID)
}

// Author is the denormalized identity copied onto content at creation time.
type Author struct {
	UserID           string `json:"userId"`
	Username         string `json:"username"`
	UserProfileImage string `json:"userProfileImage,omitempty"`
}

// AuthorOf snapshots the identity fields of u.
func AuthorOf(u *User) Author {
	if u == nil {
		return Author{}
	}
	return Author{UserID: u.ID, Username: u.Username, UserProfileImage: u.ProfileImage}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func dedupeWithout(in []string, exclude string) []string {
	if in == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, id := range in {
		if id == exclude {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
