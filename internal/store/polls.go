package store

import (
	"context"
	"errors"
	"strings"

	"codego/internal/models"
	"codego/internal/notify"
	"codego/internal/validation"

	"github.com/google/uuid"
)

// AddPoll publishes a poll. Options are trimmed, empty ones dropped, and each
// gets a fresh id and an empty voter set.
func (s *Store) AddPoll(ctx context.Context, in models.NewPoll) (models.Poll, error) {
	u, err := s.user()
	if err != nil {
		return models.Poll{}, err
	}
	texts, err := validation.PollOptions(in.Question, in.Options)
	if err != nil {
		notify.Send(ctx, s.notifier, notify.Error("Error", err.Error()))
		return models.Poll{}, err
	}
	options := make([]models.PollOption, len(texts))
	for i, text := range texts {
		options[i] = models.PollOption{ID: uuid.NewString(), Text: text, Votes: []string{}}
	}

	poll, err := s.api.CreatePoll(ctx, strings.TrimSpace(in.Question), options, models.AuthorOf(u))
	if err != nil {
		return models.Poll{}, s.fail(ctx, err, "add_poll",
			notify.Error("Poll creation failed", "Could not create poll. Please try again."))
	}

	s.mu.Lock()
	s.polls = prepend(s.polls, poll.Clone())
	s.mu.Unlock()

	s.logger.LogOperation(ctx, "add_poll", map[string]interface{}{"poll_id": poll.ID})
	s.emit(Event{Kind: KindPoll, Op: OpCreate, ID: poll.ID})
	notify.Send(ctx, s.notifier, notify.Info("Poll created", "Your poll has been published successfully."))
	return poll, nil
}

// UpdatePoll sends a partial edit and replaces the cached poll with the result.
// Edits that blank a text or name an option the cached poll lacks make no call.
func (s *Store) UpdatePoll(ctx context.Context, id string, in models.PollUpdate) (models.Poll, error) {
	if _, err := s.user(); err != nil {
		return models.Poll{}, err
	}
	current, _ := s.Poll(id)
	if err := validation.PollEdit(current, in); err != nil {
		notify.Send(ctx, s.notifier, notify.Error("Validation error", err.Error()))
		return models.Poll{}, err
	}
	poll, err := s.api.UpdatePoll(ctx, id, in)
	if err != nil {
		return models.Poll{}, s.fail(ctx, err, "update_poll", notify.Error("Failed to update poll", ""))
	}
	s.replacePoll(id, poll)
	return poll, nil
}

// DeletePoll removes a poll on the server and then from the cache.
func (s *Store) DeletePoll(ctx context.Context, id string) error {
	if _, err := s.user(); err != nil {
		return err
	}
	if err := s.api.DeletePoll(ctx, id); err != nil {
		return s.fail(ctx, err, "delete_poll",
			notify.Error("Deletion failed", "Could not delete poll. Please try again."))
	}

	s.mu.Lock()
	s.polls = removeByID(s.polls, id, pollID)
	s.mu.Unlock()

	s.logger.LogOperation(ctx, "delete_poll", map[string]interface{}{"poll_id": id})
	s.emit(Event{Kind: KindPoll, Op: OpDelete, ID: id})
	notify.Send(ctx, s.notifier, notify.Info("Poll deleted", "Your poll has been removed."))
	return nil
}

// VotePoll records a vote and reports failures to the user. A conflict means
// the server already holds a vote from this user.
func (s *Store) VotePoll(ctx context.Context, id, optionID string) (models.Poll, error) {
	poll, err := s.SubmitVote(ctx, id, optionID)
	switch {
	case err == nil:
		return poll, nil
	case errors.Is(err, models.ErrUnauthenticated):
		return models.Poll{}, err
	case models.IsConflict(err):
		notify.Send(ctx, s.notifier, notify.Error("You already voted",
			"You cannot vote again unless vote changing is enabled."))
	default:
		notify.Send(ctx, s.notifier, notify.Error("Voting failed", ""))
	}
	return models.Poll{}, err
}

// SubmitVote records a vote without notifying and adopts the server's poll.
func (s *Store) SubmitVote(ctx context.Context, id, optionID string) (models.Poll, error) {
	u, err := s.user()
	if err != nil {
		return models.Poll{}, err
	}
	poll, err := s.api.VotePoll(ctx, id, optionID, u.ID)
	if err != nil {
		s.logger.LogError(ctx, err, "vote_poll")
		return models.Poll{}, err
	}
	s.replacePoll(id, poll)
	s.logger.LogOperation(ctx, "vote_poll", map[string]interface{}{"poll_id": id, "option_id": optionID})
	return poll, nil
}

func (s *Store) replacePoll(id string, poll models.Poll) {
	s.mu.Lock()
	replaceByID(s.polls, id, poll.Clone(), pollID)
	s.mu.Unlock()
	s.emit(Event{Kind: KindPoll, Op: OpUpdate, ID: id})
}
