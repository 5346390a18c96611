package update

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/config"
)

type Notification struct {
	Title string
	Body  string
}

type Notifier interface {
	Send(Notification) error
}

type NoopNotifier struct{}

func (NoopNotifier) Send(Notification) error { return nil }

// BellNotifier rings the terminal bell.
type BellNotifier struct {
	Out io.Writer
}

func (b BellNotifier) Send(Notification) error {
	if b.Out == nil {
		return nil
	}
	_, err := io.WriteString(b.Out, "\a")
	return err
}

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type MultiNotifier []Notifier

func (m MultiNotifier) Send(n Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Send(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NotifierFromConfig picks the phase-change alerts enabled in cfg.
func NotifierFromConfig(cfg config.RuntimeConfig, bellOut io.Writer) Notifier {
	var out MultiNotifier
	if cfg.Bell {
		out = append(out, BellNotifier{Out: bellOut})
	}
	if cfg.DesktopNotify {
		out = append(out, ExecDesktopNotifier{})
	}
	if len(out) == 0 {
		return NoopNotifier{}
	}
	return out
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
