package cli

import (
	"context"
	"errors"
	"time"

	"codego/internal/notify"

	"github.com/spf13/cobra"
)

func (a *app) notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "Follow notifications published by other codego processes",
	}

	var duration time.Duration
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print broadcast and personal notifications as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.rt.Publisher == nil {
				return errors.New("notifications need Redis: set PUBLISH_NOTIFICATIONS=true and REDIS_URL")
			}
			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			// Printed directly: re-sending through the runtime notifier would publish them again.
			printer := NewTerminalNotifier(cmd.OutOrStdout())
			err := a.rt.Publisher.Subscribe(ctx, a.rt.Session.UserID(), func(n notify.Notification) {
				printer.Notify(ctx, n)
			})
			if err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
	watch.Flags().DurationVar(&duration, "for", 0, "stop after this long (0 waits until interrupted)")

	cmd.AddCommand(watch)
	return cmd
}
