package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/focus"
)

const (
	EnvPrefix      = "POMODORO"
	dirName        = ".pomodoro"
	configFileName = "config.yaml"
)

type RuntimeConfig struct {
	TasksFile          string `yaml:"tasks_file" mapstructure:"tasks_file"`
	HistoryFile        string `yaml:"history_file" mapstructure:"history_file"`
	HistoryEnabled     bool   `yaml:"history_enabled" mapstructure:"history_enabled"`
	FocusWorkMinutes   int    `yaml:"focus_work_minutes" mapstructure:"focus_work_minutes"`
	ShortBreakMinutes  int    `yaml:"short_break_minutes" mapstructure:"short_break_minutes"`
	LongBreakMinutes   int    `yaml:"long_break_minutes" mapstructure:"long_break_minutes"`
	CyclesBeforeLong   int    `yaml:"cycles_before_long_break" mapstructure:"cycles_before_long_break"`
	Bell               bool   `yaml:"bell" mapstructure:"bell"`
	DesktopNotify      bool   `yaml:"desktop_notifications" mapstructure:"desktop_notifications"`
	DefaultSortKey     string `yaml:"default_sort_key" mapstructure:"default_sort_key"`
	DefaultSortDescend bool   `yaml:"default_sort_descending" mapstructure:"default_sort_descending"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		TasksFile:          filepath.Join(Dir(), "pomodoro_tasks.jsonl"),
		HistoryFile:        filepath.Join(Dir(), "history.db"),
		HistoryEnabled:     true,
		FocusWorkMinutes:   25,
		ShortBreakMinutes:  5,
		LongBreakMinutes:   20,
		CyclesBeforeLong:   4,
		Bell:               true,
		DesktopNotify:      false,
		DefaultSortKey:     "priority",
		DefaultSortDescend: true,
	}
}

// Dir is the per-user directory holding config and data files. It falls back
// to the working directory when there is no home.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dirName
	}
	return filepath.Join(home, dirName)
}

func DefaultPath() string {
	return filepath.Join(Dir(), configFileName)
}

// Load merges defaults, the yaml file at path (when present) and POMODORO_*
// environment variables, in that order. An empty path means DefaultPath.
func Load(path string) (RuntimeConfig, error) {
	base := DefaultRuntimeConfig()
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}

	v := viper.New()
	setDefaults(v, base)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return base, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return base, fmt.Errorf("stat config %s: %w", path, err)
	}

	var cfg RuntimeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return base, fmt.Errorf("decode config: %w", err)
	}
	return cfg.normalized(base), nil
}

func setDefaults(v *viper.Viper, base RuntimeConfig) {
	v.SetDefault("tasks_file", base.TasksFile)
	v.SetDefault("history_file", base.HistoryFile)
	v.SetDefault("history_enabled", base.HistoryEnabled)
	v.SetDefault("focus_work_minutes", base.FocusWorkMinutes)
	v.SetDefault("short_break_minutes", base.ShortBreakMinutes)
	v.SetDefault("long_break_minutes", base.LongBreakMinutes)
	v.SetDefault("cycles_before_long_break", base.CyclesBeforeLong)
	v.SetDefault("bell", base.Bell)
	v.SetDefault("desktop_notifications", base.DesktopNotify)
	v.SetDefault("default_sort_key", base.DefaultSortKey)
	v.SetDefault("default_sort_descending", base.DefaultSortDescend)
}

func (c RuntimeConfig) normalized(base RuntimeConfig) RuntimeConfig {
	out := c
	if strings.TrimSpace(out.TasksFile) == "" {
		out.TasksFile = base.TasksFile
	}
	if strings.TrimSpace(out.HistoryFile) == "" {
		out.HistoryFile = base.HistoryFile
	}
	if out.FocusWorkMinutes <= 0 {
		out.FocusWorkMinutes = base.FocusWorkMinutes
	}
	if out.ShortBreakMinutes <= 0 {
		out.ShortBreakMinutes = base.ShortBreakMinutes
	}
	if out.LongBreakMinutes <= 0 {
		out.LongBreakMinutes = base.LongBreakMinutes
	}
	if out.CyclesBeforeLong <= 0 {
		out.CyclesBeforeLong = base.CyclesBeforeLong
	}
	if strings.TrimSpace(out.DefaultSortKey) == "" {
		out.DefaultSortKey = base.DefaultSortKey
	}
	return out
}

func (c RuntimeConfig) Durations() focus.Durations {
	return focus.Durations{
		Work:             time.Duration(c.FocusWorkMinutes) * time.Minute,
		ShortBreak:       time.Duration(c.ShortBreakMinutes) * time.Minute,
		LongBreak:        time.Duration(c.LongBreakMinutes) * time.Minute,
		CyclesBeforeLong: c.CyclesBeforeLong,
	}
}

func (c RuntimeConfig) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteFile stores cfg as yaml. It refuses to replace an existing file unless
// overwrite is set.
func WriteFile(path string, cfg RuntimeConfig, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists", path)
		}
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	payload, err := cfg.YAML()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
