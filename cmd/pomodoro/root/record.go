package root

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/storage"
)

func newRecordCmd() *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "record <name>",
		Short: "Credit a finished pomodoro to a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if minutes < 0 {
				return fmt.Errorf("%w: %d minutes", storage.ErrInvalidDuration, minutes)
			}
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			task, err := a.recorder.CompleteWork(context.Background(), strings.Join(args, " "), time.Now().UTC(), time.Duration(minutes)*time.Minute)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded: %s, %d/%d pomodoros (%.1f%%)\n",
				task.Name, task.CompletedPomodoros(), task.TargetPomodoros, task.ProgressPercent())
			return nil
		},
	}

	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Length of the block in minutes (default one pomodoro)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a task and its session history",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			name := strings.Join(args, " ")
			if err := a.recorder.DeleteTask(context.Background(), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", name)
			return nil
		},
	}
	return cmd
}
