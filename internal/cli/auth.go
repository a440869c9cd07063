package cli

import (
	"errors"
	"fmt"
	"strings"

	"codego/internal/notify"
	"codego/internal/validation"

	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateLogin(email, password); err != nil {
				notify.Send(cmd.Context(), a.rt.Notifier, notify.Error("Error", err.Error()))
				return err
			}
			if !a.rt.Session.Login(cmd.Context(), strings.TrimSpace(email), password) {
				return errors.New("login failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	var username, email, password, confirm string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateRegistration(username, email, password, confirm); err != nil {
				notify.Send(cmd.Context(), a.rt.Notifier, notify.Error("Error", err.Error()))
				return err
			}
			if !a.rt.Session.Register(cmd.Context(), strings.TrimSpace(username), strings.TrimSpace(email), password) {
				return errors.New("registration failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "repeat the password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.rt.Session.Logout(cmd.Context())
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := a.rt.Session.CurrentUser()
			if u == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			table := newTable(cmd.OutOrStdout(), "ID", "Username", "Email", "Followers", "Following")
			table.Append([]string{u.ID, u.Username, u.Email,
				fmt.Sprint(len(u.Followers)), fmt.Sprint(len(u.Following))})
			table.Render()
			return nil
		},
	}
}
