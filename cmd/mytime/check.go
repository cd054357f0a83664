package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stekc/myTimeAPI/server/runner/digest"
	"github.com/stekc/myTimeAPI/server/service/schedule"
)

// exitError carries a process exit status out of a command.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d: %v", e.code, e.err)
}

func (e exitError) Unwrap() error {
	return e.err
}

func newCheckCmd() *cobra.Command {
	var weeks int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Send one notification per scheduled day of the coming weeks",
		Long: `check validates the stored credential, reads the schedule of the coming
weeks and sends one notification per working day.

Exit status is 1 when authentication fails and 2 when the employer API fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			a, err := newApp(p)
			if err != nil {
				return err
			}

			sent, err := digest.NewRunner(a.service, a.notifier, weeks).Run(cmd.Context())
			if err != nil {
				cmd.PrintErrln(err)
				return exitError{code: digest.ExitCode(err), err: err}
			}
			cmd.Printf("sent %d notifications\n", sent)
			return nil
		},
	}
	cmd.Flags().IntVar(&weeks, "weeks", schedule.DefaultScheduleWeeks, "number of weeks to check")
	return cmd
}
