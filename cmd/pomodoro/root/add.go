package root

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/model"
)

func newAddCmd() *cobra.Command {
	var opts model.Options
	var due string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if due != "" {
				at, err := time.ParseInLocation(dateLayout, due, time.Local)
				if err != nil {
					return fmt.Errorf("due must look like %s: %w", dateLayout, err)
				}
				opts.DueAt = &at
			}

			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			task, err := a.store.Add(strings.Join(args, " "), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", task)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Priority, "priority", "p", model.DefaultPriority, "Priority, higher sorts first")
	cmd.Flags().StringVarP(&opts.Status, "status", "s", model.DefaultStatus, "Initial status")
	cmd.Flags().StringSliceVarP(&opts.Tags, "tag", "t", nil, "Tag (repeatable)")
	cmd.Flags().IntVarP(&opts.TargetPomodoros, "target", "n", 0, "Planned number of pomodoros")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	return cmd
}
