package root

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/config"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/focus"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/storage"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/update"
)

type app struct {
	cfg      config.RuntimeConfig
	store    *storage.TaskStore
	history  *storage.SQLiteRepository
	recorder *focus.Recorder
	logger   *log.Logger
}

// openApp loads the config and opens the task store and, when enabled, the
// session history. A history that cannot be opened is logged and skipped.
func openApp(cmd *cobra.Command) (*app, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(cmd.ErrOrStderr(), "", 0)

	store, err := storage.OpenTaskStore(cfg.TasksFile, storage.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	a := &app{cfg: cfg, store: store, logger: logger}

	if cfg.HistoryEnabled {
		history, err := storage.OpenSQLite(cfg.HistoryFile)
		if err != nil {
			logger.Printf("warning: session history disabled: %v", err)
		} else {
			a.history = history
		}
	}
	if a.history != nil {
		a.recorder = focus.NewRecorder(store, a.history, logger)
	} else {
		a.recorder = focus.NewRecorder(store, nil, logger)
	}

	cleanup := func() {
		if a.history != nil {
			_ = a.history.Close()
		}
		_ = store.Close()
	}
	return a, cleanup, nil
}

func (a *app) historyReader() update.HistoryReader {
	if a.history == nil {
		return nil
	}
	return a.history
}
