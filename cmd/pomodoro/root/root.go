package root

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/update"
)

const Version = "0.1.0"

var configPath string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pomodoro",
		Short:         "Pomodoro timer and task tracker",
		Long:          "pomodoro keeps a list of tasks in a JSON-lines file and credits finished focus blocks to them.\nRun without a subcommand to open the terminal UI.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			notifier := update.NotifierFromConfig(a.cfg, cmd.OutOrStdout())
			m := update.NewModel(a.store, a.recorder, a.historyReader(), a.cfg, notifier)
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.pomodoro/config.yaml)")

	cmd.AddCommand(
		newAddCmd(),
		newListCmd(),
		newGetCmd(),
		newStatsCmd(),
		newRecordCmd(),
		newDeleteCmd(),
		newFilterCmd(),
		newSortCmd(),
		newHistoryCmd(),
		newConfigCmd(),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}
