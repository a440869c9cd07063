package cli

import (
	"strings"

	"codego/internal/models"

	"github.com/spf13/cobra"
)

func (a *app) postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List and manage posts",
	}

	var mine bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			posts := a.rt.Store.Posts()
			if mine {
				if err := a.requireSession(); err != nil {
					return err
				}
				posts = a.rt.Store.UserPosts(a.rt.Session.UserID())
			}
			renderPosts(cmd.OutOrStdout(), posts)
			return nil
		},
	}
	list.Flags().BoolVar(&mine, "mine", false, "only posts by the signed-in user")

	var in models.NewPost
	create := &cobra.Command{
		Use:   "create",
		Short: "Publish a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			post, err := a.rt.Store.AddPost(cmd.Context(), in)
			if err != nil {
				return err
			}
			renderPosts(cmd.OutOrStdout(), []models.Post{post})
			return nil
		},
	}
	create.Flags().StringVarP(&in.Title, "title", "t", "", "post title")
	create.Flags().StringVarP(&in.Description, "description", "d", "", "post body")
	create.Flags().StringVar(&in.Image, "image", "", "image URL")

	del := &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rt.Store.DeletePost(cmd.Context(), args[0])
		},
	}

	like := &cobra.Command{
		Use:   "like <post-id>",
		Short: "Like a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := a.rt.Store.LikePost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderPosts(cmd.OutOrStdout(), []models.Post{post})
			return nil
		},
	}

	unlike := &cobra.Command{
		Use:   "unlike <post-id>",
		Short: "Remove your like from a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := a.rt.Store.UnlikePost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderPosts(cmd.OutOrStdout(), []models.Post{post})
			return nil
		},
	}

	comment := &cobra.Command{
		Use:   "comment <post-id> <text...>",
		Short: "Comment on a post",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.rt.Store.AddComment(cmd.Context(), args[0], strings.Join(args[1:], " "))
			return err
		},
	}

	cmd.AddCommand(list, create, del, like, unlike, comment)
	return cmd
}
