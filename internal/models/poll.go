package models

import (
	"math"
	"time"
)

// Poll option bounds at creation time.
const (
	MinPollOptions = 2
	MaxPollOptions = 5
)

// Poll is a question with a fixed set of options.
type Poll struct {
	ID string `json:"id"`
	Author
	Question  string       `json:"question"`
	Options   []PollOption `json:"options"`
	CreatedAt time.Time    `json:"createdAt"`
}

// PollOption holds the ids of the users who voted for it.
type PollOption struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Votes []string `json:"votes"`
}

// Clone returns a deep copy of the poll, including every voter set.
func (p Poll) Clone() Poll {
	if p.Options != nil {
		opts := make([]PollOption, len(p.Options))
		for i, o := range p.Options {
			opts[i] = o.Clone()
		}
		p.Options = opts
	}
	return p
}

// Clone returns a deep copy of the option.
func (o PollOption) Clone() PollOption {
	o.Votes = cloneStrings(o.Votes)
	return o
}

// HasVoter reports whether userID voted for this option.
func (o PollOption) HasVoter(userID string) bool {
	return containsString(o.Votes, userID)
}

// Percentage is this option's share of total, rounded to a whole percent.
func (o PollOption) Percentage(total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(len(o.Votes)) / float64(total) * 100))
}

// TotalVotes sums the votes across all options.
func (p Poll) TotalVotes() int {
	total := 0
	for _, o := range p.Options {
		total += len(o.Votes)
	}
	return total
}

// Option returns the option with the given id.
func (p Poll) Option(optionID string) (PollOption, bool) {
	for _, o := range p.Options {
		if o.ID == optionID {
			return o, true
		}
	}
	return PollOption{}, false
}

// OptionsVotedBy lists the ids of options that hold a vote from userID.
func (p Poll) OptionsVotedBy(userID string) []string {
	var out []string
	for _, o := range p.Options {
		if o.HasVoter(userID) {
			out = append(out, o.ID)
		}
	}
	return out
}

// WithVote returns a copy of the poll with userID appended to the option's voters.
func (p Poll) WithVote(optionID, userID string) Poll {
	out := p.Clone()
	for i := range out.Options {
		if out.Options[i].ID == optionID {
			out.Options[i].Votes = append(out.Options[i].Votes, userID)
		}
	}
	return out
}

// NewPoll is the user-supplied part of a poll.
type NewPoll struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// PollUpdate edits question and option texts. Options are matched by id.
type PollUpdate struct {
	Question *string      `json:"question,omitempty"`
	Options  []PollOption `json:"options,omitempty"`
}
