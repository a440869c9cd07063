package cli

import (
	"fmt"

	"codego/internal/models"

	"github.com/spf13/cobra"
)

func (a *app) pollsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "polls",
		Short: "List, create and vote on polls",
	}

	var mine bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List polls with their tallies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			polls := a.rt.Store.Polls()
			if mine {
				if err := a.requireSession(); err != nil {
					return err
				}
				polls = a.rt.Store.UserPolls(a.rt.Session.UserID())
			}
			if len(polls) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No polls yet")
			}
			for _, p := range polls {
				renderPoll(cmd.OutOrStdout(), p, a.rt.Session.UserID())
			}
			return nil
		},
	}
	list.Flags().BoolVar(&mine, "mine", false, "only polls by the signed-in user")

	var in models.NewPoll
	create := &cobra.Command{
		Use:   "create",
		Short: "Publish a poll with 2 to 5 options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			poll, err := a.rt.Store.AddPoll(cmd.Context(), in)
			if err != nil {
				return err
			}
			renderPoll(cmd.OutOrStdout(), poll, a.rt.Session.UserID())
			return nil
		},
	}
	create.Flags().StringVarP(&in.Question, "question", "q", "", "poll question")
	create.Flags().StringArrayVarP(&in.Options, "option", "o", nil, "an option (repeat for each)")

	vote := &cobra.Command{
		Use:   "vote <poll-id> <option-id>",
		Short: "Vote for an option",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			poll, ok := a.rt.Store.Poll(args[0])
			if !ok {
				return models.NewNotFoundError("poll", args[0])
			}
			card, release := a.rt.VoteCard(poll)
			defer release()
			err := card.Vote(cmd.Context(), args[1])
			renderPoll(cmd.OutOrStdout(), card.Poll(), a.rt.Session.UserID())
			return err
		},
	}

	del := &cobra.Command{
		Use:   "delete <poll-id>",
		Short: "Delete a poll",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rt.Store.DeletePoll(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, create, vote, del)
	return cmd
}
