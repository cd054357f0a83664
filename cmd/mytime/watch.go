package main

import (
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Announce newly posted open shifts",
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
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			watcher, err := a.newWatcher(st)
			if err != nil {
				return err
			}
			if once {
				announced, err := watcher.RunOnce(ctx)
				if err != nil {
					return err
				}
				cmd.Printf("announced %d new shifts\n", announced)
				return nil
			}
			watcher.Run(ctx)
			return nil
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "check once and exit")
	return cmd
}
