package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stekc/myTimeAPI/server"
	"github.com/stekc/myTimeAPI/server/runner/openshift"
)

func newServeCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schedule API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			a, err := newApp(p)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var watcher *openshift.Runner
			if watch {
				st, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer st.Close()
				if watcher, err = a.newWatcher(st); err != nil {
					return err
				}
			}

			s := server.NewServer(p, a.service, watcher)
			if err := s.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			slog.Info("shutting down")
			s.Shutdown(context.Background())
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "also run the open shift watcher")
	return cmd
}
