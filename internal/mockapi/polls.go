package mockapi

import (
	"strings"
	"time"

	"codego/internal/models"
	"codego/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type createPollRequest struct {
	Question string              `json:"question"`
	Options  []models.PollOption `json:"options"`
	models.Author
}

type voteRequest struct {
	UserID   string `json:"userId"`
	OptionID string `json:"optionId"`
}

func pollID(p models.Poll) string { return p.ID }

// ListPolls handles GET /api/polls
func (s *Server) ListPolls(c *fiber.Ctx) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Poll, len(s.polls))
	for i, p := range s.polls {
		out[i] = p.Clone()
	}
	return c.JSON(out)
}

// CreatePoll handles POST /api/polls. Option ids chosen by the client are
// kept; voter sets always start empty.
func (s *Server) CreatePoll(c *fiber.Ctx) error {
	var req createPollRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.UserID == "" {
		return badRequest(c, "userId is required")
	}

	texts := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		texts = append(texts, o.Text)
	}
	if _, err := validation.PollOptions(req.Question, texts); err != nil {
		return respondWithError(c, fiber.StatusBadRequest, err)
	}

	options := make([]models.PollOption, 0, len(req.Options))
	for _, o := range req.Options {
		text := strings.TrimSpace(o.Text)
		if text == "" {
			continue
		}
		id := o.ID
		if id == "" {
			id = uuid.NewString()
		}
		options = append(options, models.PollOption{ID: id, Text: text, Votes: []string{}})
	}

	poll := models.Poll{
		ID:        uuid.NewString(),
		Author:    req.Author,
		Question:  strings.TrimSpace(req.Question),
		Options:   options,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.polls = append([]models.Poll{poll}, s.polls...)
	s.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(poll)
}

// UpdatePoll handles PUT /api/polls/:id. Options are matched by id and only
// their text changes.
func (s *Server) UpdatePoll(c *fiber.Ctx) error {
	var req models.PollUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := findByID(s.polls, c.Params("id"), pollID)
	if i < 0 {
		return notFound(c, "poll", c.Params("id"))
	}
	p := &s.polls[i]
	if err := validation.PollEdit(*p, req); err != nil {
		return respondWithError(c, fiber.StatusBadRequest, err)
	}
	if req.Question != nil {
		p.Question = *req.Question
	}
	for _, upd := range req.Options {
		for j := range p.Options {
			if p.Options[j].ID == upd.ID {
				p.Options[j].Text = upd.Text
			}
		}
	}
	return c.JSON(p.Clone())
}

// DeletePoll handles DELETE /api/polls/:id
func (s *Server) DeletePoll(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := findByID(s.polls, c.Params("id"), pollID)
	if i < 0 {
		return notFound(c, "poll", c.Params("id"))
	}
	s.polls = append(s.polls[:i], s.polls[i+1:]...)
	return c.SendStatus(fiber.StatusNoContent)
}

// VotePoll handles POST /api/polls/:id/vote. A user holds at most one vote per
// poll; a second vote is a 409 unless vote changing is enabled.
func (s *Server) VotePoll(c *fiber.Ctx) error {
	var req voteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.UserID == "" || req.OptionID == "" {
		return badRequest(c, "userId and optionId are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := findByID(s.polls, c.Params("id"), pollID)
	if i < 0 {
		return notFound(c, "poll", c.Params("id"))
	}
	p := &s.polls[i]
	if _, ok := p.Option(req.OptionID); !ok {
		return notFound(c, "poll option", req.OptionID)
	}

	prior := p.OptionsVotedBy(req.UserID)
	for _, id := range prior {
		if id == req.OptionID {
			return respondWithError(c, fiber.StatusConflict, models.NewConflictError("User already voted for this option"))
		}
	}
	if len(prior) > 0 && !s.cfg.AllowVoteChange {
		return respondWithError(c, fiber.StatusConflict, models.NewConflictError("User already voted"))
	}

	for j := range p.Options {
		o := &p.Options[j]
		switch {
		case o.ID == req.OptionID:
			o.Votes = append(o.Votes, req.UserID)
		case o.HasVoter(req.UserID):
			o.Votes = remove(o.Votes, req.UserID)
		}
	}
	return c.JSON(p.Clone())
}
