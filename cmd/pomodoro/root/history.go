package root

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/focus"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/storage"
)

func newHistoryCmd() *cobra.Command {
	var since time.Duration
	var sessions bool
	var filter storage.SessionListFilter

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show finished focus sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			if a.history == nil {
				return errors.New("session history is disabled")
			}

			ctx := context.Background()
			var from *time.Time
			if since > 0 {
				at := time.Now().UTC().Add(-since)
				from = &at
			}
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

			if !sessions {
				totals, err := a.history.TotalsByTask(ctx, from)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, headingStyle.Render("Focus time per task"))
				fmt.Fprintln(tw, "TASK\tSESSIONS\tMINUTES")
				for _, total := range totals {
					fmt.Fprintf(tw, "%s\t%d\t%d\n", total.TaskName, total.Sessions, total.DurationSec/60)
				}
				return tw.Flush()
			}

			filter.Since = from
			list, err := a.history.ListSessions(ctx, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, headingStyle.Render("Sessions"))
			fmt.Fprintln(tw, "ENDED\tKIND\tTASK\tMINUTES")
			for _, s := range list {
				task := s.TaskName
				if task == "" {
					task = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					s.EndedAt.Local().Format("2006-01-02 15:04"),
					focus.Phase(s.Kind).Label(),
					task,
					focus.FormatClock(s.DurationSec),
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().DurationVar(&since, "since", 0, "Only sessions that ended within this window (e.g. 168h)")
	cmd.Flags().BoolVar(&sessions, "sessions", false, "List individual sessions instead of totals")
	cmd.Flags().StringVar(&filter.TaskName, "task", "", "Only sessions of this task (with --sessions)")
	cmd.Flags().IntVar(&filter.Limit, "limit", 20, "Maximum sessions to list (with --sessions)")
	return cmd
}
