package models

import "time"

// Post is a user post with its likes and comment thread.
type Post struct {
	ID string `json:"id"`
	Author
	Title       string    `json:"title"`
	Image       string    `json:"image,omitempty"`
	Description string    `json:"description"`
	Likes       []string  `json:"likes"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Comment belongs to exactly one post.
type Comment struct {
	ID string `json:"id"`
	Author
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy of the post.
func (p Post) Clone() Post {
	p.Likes = cloneStrings(p.Likes)
	if p.Comments != nil {
		comments := make([]Comment, len(p.Comments))
		copy(comments, p.Comments)
		p.Comments = comments
	}
	return p
}

// LikedBy reports whether userID is in the post's like set.
func (p Post) LikedBy(userID string) bool {
	return containsString(p.Likes, userID)
}

// NewPost is the user-supplied part of a post.
type NewPost struct {
	Title       string `json:"title"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description"`
}

// PostUpdate is a partial post payload; nil fields are left unchanged.
type PostUpdate struct {
	Title       *string `json:"title,omitempty"`
	Image       *string `json:"image,omitempty"`
	Description *string `json:"description,omitempty"`
}
