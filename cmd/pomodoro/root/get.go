package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/views"
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show one task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			task, err := a.store.Get(strings.Join(args, " "))
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), task)
			return nil
		},
	}
	return cmd
}

func newStatsCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "stats <name>",
		Short: "Show time invested and pomodoro progress of a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			name := strings.Join(args, " ")
			if _, err := a.store.Stats(name); err != nil {
				return err
			}
			task, err := a.store.Get(name)
			if err != nil {
				return err
			}
			md := statsMarkdown(task)
			if !raw {
				md = views.RenderMarkdown(md)
			}
			fmt.Fprintln(cmd.OutOrStdout(), md)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")
	return cmd
}
