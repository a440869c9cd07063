package mockapi

import (
	"fmt"
	"time"

	"codego/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// Seeded accounts share this password.
const (
	DemoEmail    = "demo@codego.dev"
	DemoPassword = "password123"
)

const (
	seedUsers     = 4
	seedPosts     = 6
	seedPolls     = 3
	seedMaterials = 4
)

// seed must run before the server is shared.
func (s *Server) seed(value int64) {
	f := s.faker
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("seed: hash password", "error", err)
		return
	}

	now := time.Now().UTC()
	users := []models.User{{
		ID:        f.UUID(),
		Username:  "demo",
		Email:     DemoEmail,
		Followers: []string{},
		Following: []string{},
		CreatedAt: now,
	}}
	for i := 0; i < seedUsers; i++ {
		users = append(users, models.User{
			ID:        f.UUID(),
			Username:  fmt.Sprintf("%s%d", f.Username(), i),
			Email:     fmt.Sprintf("%d.%s", i, f.Email()),
			Bio:       f.HackerPhrase(),
			Followers: []string{},
			Following: []string{},
			CreatedAt: now.Add(-time.Duration(f.Number(1, 720)) * time.Hour),
		})
	}
	for _, u := range users {
		s.addAccount(u, hash)
	}
	author := func() models.Author {
		return models.AuthorOf(&users[f.Number(0, len(users)-1)])
	}

	for i := 0; i < seedPosts; i++ {
		post := models.Post{
			ID:          f.UUID(),
			Author:      author(),
			Title:       f.Sentence(5),
			Description: f.Paragraph(1, 3, 5, "\n"),
			Likes:       []string{},
			Comments:    []models.Comment{},
			CreatedAt:   now.Add(-time.Duration(i) * time.Hour),
		}
		if f.Bool() {
			post.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.UUID())
		}
		for j, n := 0, f.Number(0, 3); j < n; j++ {
			post.Comments = append(post.Comments, models.Comment{
				ID:        f.UUID(),
				Author:    author(),
				Content:   f.Sentence(8),
				CreatedAt: post.CreatedAt.Add(time.Duration(j+1) * time.Minute),
			})
		}
		s.posts = append(s.posts, post)
	}

	for i := 0; i < seedPolls; i++ {
		poll := models.Poll{
			ID:        f.UUID(),
			Author:    author(),
			Question:  f.Question(),
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		}
		for j, n := 0, f.Number(models.MinPollOptions, models.MaxPollOptions); j < n; j++ {
			poll.Options = append(poll.Options, models.PollOption{ID: f.UUID(), Text: f.BuzzWord(), Votes: []string{}})
		}
		// Voters other than the demo user, so the demo account can always vote.
		for _, u := range users[1:] {
			if f.Bool() {
				k := f.Number(0, len(poll.Options)-1)
				poll.Options[k].Votes = append(poll.Options[k].Votes, u.ID)
			}
		}
		s.polls = append(s.polls, poll)
	}

	for i := 0; i < seedMaterials; i++ {
		m := models.LearningMaterial{
			ID:          f.UUID(),
			Author:      author(),
			Title:       f.Sentence(4),
			Description: f.Sentence(12),
			FileURL:     f.URL(),
			FileType:    models.FileTypeLink,
			CreatedAt:   now.Add(-time.Duration(i) * time.Hour),
		}
		if i%2 == 1 {
			m.FileType = models.FileTypePDF
			m.FileURL = fmt.Sprintf("https://example.com/docs/%s.pdf", f.Word())
		}
		s.materials = append(s.materials, m)
	}

	s.logger.Info("seeded mock API", "users", len(users), "posts", len(s.posts),
		"polls", len(s.polls), "materials", len(s.materials), "seed", value)
}
