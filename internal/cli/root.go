// Package cli implements the codego command-line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"codego/internal/bootstrap"
	"codego/internal/notify"

	"github.com/spf13/cobra"
)

// RuntimeFactory builds the runtime for one command invocation. Notifications
// must be delivered to notifier.
type RuntimeFactory func(ctx context.Context, notifier notify.Notifier) (*bootstrap.Runtime, error)

type app struct {
	factory RuntimeFactory
	rt      *bootstrap.Runtime
}

// NewRootCmd returns the codego command tree.
func NewRootCmd(factory RuntimeFactory) *cobra.Command {
	return newRootCmd(&app{factory: factory})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "codego [command]",
		Short:         "Code Go: posts, polls, learning materials and quizzes from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.start(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.stop(cmd.Context())
		},
	}

	root.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.postsCmd(),
		a.pollsCmd(),
		a.materialsCmd(),
		a.quizCmd(),
		a.notificationsCmd(),
		a.flagsCmd(),
	)
	return root
}

// Execute runs the command tree against args and reports the error to errOut.
func Execute(ctx context.Context, factory RuntimeFactory, args []string, out, errOut io.Writer) error {
	a := &app{factory: factory}
	// PersistentPostRunE is skipped when a command fails.
	defer func() { _ = a.stop(context.Background()) }()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.ExecuteContext(ctx)
	if err != nil {
		printError(errOut, err)
	}
	return err
}

func (a *app) start(cmd *cobra.Command) error {
	if a.factory == nil {
		return errors.New("no runtime configured")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := a.factory(ctx, NewTerminalNotifier(cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("start codego: %w", err)
	}
	a.rt = rt
	rt.Session.RestoreSession(ctx)
	return nil
}

func (a *app) stop(ctx context.Context) error {
	if a.rt == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := a.rt.Close(ctx)
	a.rt = nil
	return err
}

// load fills the entity cache for commands that read or mutate cached entities.
func (a *app) load(ctx context.Context) error {
	return a.rt.Store.Load(ctx)
}

// requireSession fails fast for commands that need a signed-in user.
func (a *app) requireSession() error {
	if !a.rt.Session.IsAuthenticated() {
		return errors.New("not logged in: run `codego login` first")
	}
	return nil
}
