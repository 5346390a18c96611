package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/storage"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return printTasks(cmd.OutOrStdout(), "Tasks", a.store.All())
		},
	}
	return cmd
}

func newFilterCmd() *cobra.Command {
	var filter storage.TaskFilter

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List tasks matching a status and/or tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			title := fmt.Sprintf("Tasks (status=%q tag=%q)", filter.Status, filter.Tag)
			return printTasks(cmd.OutOrStdout(), title, a.store.Filter(filter))
		},
	}

	cmd.Flags().StringVarP(&filter.Status, "status", "s", "", "Exact status to match")
	cmd.Flags().StringVarP(&filter.Tag, "tag", "t", "", "Tag the task must carry")
	return cmd
}

func newSortCmd() *cobra.Command {
	var ascending bool

	cmd := &cobra.Command{
		Use:       "sort <priority|due_at|created_at>",
		Short:     "List tasks ordered by a field, descending by default",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(storage.SortByPriority), string(storage.SortByDueAt), string(storage.SortByCreatedAt)},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			tasks, err := a.store.Sorted(storage.SortKey(args[0]), !ascending)
			if err != nil {
				return err
			}
			dir := "desc"
			if ascending {
				dir = "asc"
			}
			return printTasks(cmd.OutOrStdout(), fmt.Sprintf("Tasks by %s %s", args[0], dir), tasks)
		},
	}

	cmd.Flags().BoolVar(&ascending, "asc", false, "Sort ascending")
	return cmd
}
