// Package vote coordinates optimistic poll votes for one poll card.
package vote

import (
	"context"
	"sync"

	"codego/internal/featureflags"
	"codego/internal/models"
	"codego/internal/notify"
	"codego/internal/observability"
)

// Voter submits a vote and returns the server's view of the poll.
type Voter interface {
	SubmitVote(ctx context.Context, pollID, optionID string) (models.Poll, error)
}

// Identity supplies the signed-in user, or nil.
type Identity interface {
	CurrentUser() *models.User
}

// State is where a card is in its vote cycle.
type State int

const (
	Idle State = iota
	Voting
	Settled
	RolledBack
)

func (s State) String() string {
	switch s {
	case Voting:
		return "voting"
	case Settled:
		return "settled"
	case RolledBack:
		return "rolled-back"
	default:
		return "idle"
	}
}

const conflictVoteMessage = "The server only allows one vote per poll. Please refresh the page to see your current vote."

// Option configures a Card.
type Option func(*Card)

// WithFlags sets the feature flags consulted for optimistic tallies.
func WithFlags(m *featureflags.Manager) Option {
	return func(c *Card) { c.flags = m }
}

// WithLogger sets the logger.
func WithLogger(l *observability.Logger) Option {
	return func(c *Card) { c.logger = observability.NewClientLogger("vote", l) }
}

// Card holds the displayed state of one poll and at most one vote in flight.
type Card struct {
	voter    Voter
	identity Identity
	notifier notify.Notifier
	flags    *featureflags.Manager
	logger   *observability.ClientLogger

	mu      sync.Mutex
	poll    models.Poll
	pending []string
	state   State
}

// NewCard starts a card in Idle showing poll.
func NewCard(poll models.Poll, voter Voter, identity Identity, notifier notify.Notifier, opts ...Option) *Card {
	c := &Card{
		voter:    voter,
		identity: identity,
		notifier: notifier,
		logger:   observability.NewClientLogger("vote", nil),
		poll:     poll.Clone(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Vote casts the signed-in user's vote for optionID. The tally is updated
// locally before the request and reset to the pre-vote snapshot if it fails.
// Returns ErrUnauthenticated without a session, ErrVoteInFlight while another
// vote is pending and ErrAlreadySelected for an option already voted or pending.
func (c *Card) Vote(ctx context.Context, optionID string) error {
	var user *models.User
	if c.identity != nil {
		user = c.identity.CurrentUser()
	}
	if user == nil {
		return models.ErrUnauthenticated
	}

	c.mu.Lock()
	if c.state == Voting {
		c.mu.Unlock()
		observability.VoteOutcomes.WithLabelValues(observability.VoteIgnored).Inc()
		return models.ErrVoteInFlight
	}
	option, ok := c.poll.Option(optionID)
	if !ok {
		c.mu.Unlock()
		return models.NewNotFoundError("poll option", optionID)
	}
	if option.HasVoter(user.ID) || contains(c.pending, optionID) {
		c.mu.Unlock()
		observability.VoteOutcomes.WithLabelValues(observability.VoteRejected).Inc()
		notify.Send(ctx, c.notifier, notify.Info("Already selected", "You've already voted for this option."))
		return models.ErrAlreadySelected
	}

	snapshot := c.poll.Clone()
	hadPriorVote := len(snapshot.OptionsVotedBy(user.ID)) > 0
	c.pending = append(c.pending, optionID)
	c.state = Voting
	if c.flags.EnabledOr(featureflags.OptimisticVotes, user.ID, true) {
		c.poll = snapshot.WithVote(optionID, user.ID)
	}
	pollID := snapshot.ID
	c.mu.Unlock()

	if hadPriorVote {
		notify.Send(ctx, c.notifier, notify.Warn("API Limitation",
			"The server only allows one vote per poll. Your previous selection will be replaced."))
	}

	confirmed, err := c.voter.SubmitVote(ctx, pollID, optionID)
	if err != nil {
		c.rollback(snapshot, optionID)
		c.logger.LogError(ctx, err, "vote")
		observability.VoteOutcomes.WithLabelValues(observability.VoteRolledBack).Inc()
		msg := "There was an error recording your vote."
		if models.IsConflict(err) {
			msg = conflictVoteMessage
		}
		notify.Send(ctx, c.notifier, notify.Error("Voting failed", msg))
		return err
	}

	c.settle(confirmed, optionID)
	c.logger.LogOperation(ctx, "vote", map[string]interface{}{"poll_id": pollID, "option_id": optionID})
	observability.VoteOutcomes.WithLabelValues(observability.VoteSettled).Inc()
	notify.Send(ctx, c.notifier, notify.Info("Vote recorded", "Your vote has been added successfully."))
	return nil
}

// settle replaces the displayed poll with the server's and clears the pending marker.
func (c *Card) settle(confirmed models.Poll, optionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poll = confirmed.Clone()
	c.pending = without(c.pending, optionID)
	c.state = Settled
}

func (c *Card) rollback(snapshot models.Poll, optionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poll = snapshot
	c.pending = without(c.pending, optionID)
	c.state = RolledBack
}

// Refresh adopts a newer canonical poll. A poll with a different id also
// drops pending markers. It is ignored while a vote is in flight and reports
// whether the poll was adopted.
func (c *Card) Refresh(poll models.Poll) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Voting {
		return false
	}
	if poll.ID != c.poll.ID {
		c.pending = nil
		c.state = Idle
	}
	c.poll = poll.Clone()
	return true
}

// Poll returns a copy of the displayed poll.
func (c *Card) Poll() models.Poll {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poll.Clone()
}

// State returns the current vote state.
func (c *Card) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsVoting reports whether a vote is in flight.
func (c *Card) IsVoting() bool {
	return c.State() == Voting
}

// Pending returns the option ids with a vote in flight.
func (c *Card) Pending() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.pending...)
}

// IsSelected reports whether the signed-in user voted for optionID or has a
// vote for it in flight.
func (c *Card) IsSelected(optionID string) bool {
	var userID string
	if c.identity != nil {
		if u := c.identity.CurrentUser(); u != nil {
			userID = u.ID
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if contains(c.pending, optionID) {
		return true
	}
	option, ok := c.poll.Option(optionID)
	return ok && userID != "" && option.HasVoter(userID)
}

// Percentage is optionID's share of the displayed votes.
func (c *Card) Percentage(optionID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	option, ok := c.poll.Option(optionID)
	if !ok {
		return 0
	}
	return option.Percentage(c.poll.TotalVotes())
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func without(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
