package watcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// Notify sends a desktop notification for the given alert. On macOS it uses
// osascript, on Linux it tries notify-send. If neither is available, it falls
// back to printing to stderr.
func Notify(alert Alert) error {
	switch runtime.GOOS {
	case "darwin":
		return notifyMacOS(alert)
	case "linux":
		return notifyLinux(alert)
	default:
		return notifyFallback(os.Stderr, alert)
	}
}

func title(alert Alert) string {
	if alert.SessionID == "" {
		return alert.Title
	}
	return fmt.Sprintf("%s (%s)", alert.Title, alert.SessionID)
}

// notifyMacOS sends a notification via osascript on macOS.
func notifyMacOS(alert Alert) error {
	script := fmt.Sprintf(
		`display notification %q with title "uxpulse" subtitle %q`,
		alert.Message, title(alert),
	)
	cmd := exec.Command("osascript", "-e", script)
	if err := cmd.Run(); err != nil {
		return notifyFallback(os.Stderr, alert)
	}
	return nil
}

// notifyLinux sends a notification via notify-send on Linux.
func notifyLinux(alert Alert) error {
	if _, err := exec.LookPath("notify-send"); err != nil {
		return notifyFallback(os.Stderr, alert)
	}

	urgency := "normal"
	if alert.Level == "critical" {
		urgency = "critical"
	}
	cmd := exec.Command("notify-send", "-u", urgency, "uxpulse: "+title(alert), alert.Message)
	if err := cmd.Run(); err != nil {
		return notifyFallback(os.Stderr, alert)
	}
	return nil
}

// notifyFallback prints the alert when no desktop notification system is
// available.
func notifyFallback(w io.Writer, alert Alert) error {
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", alert.Level, title(alert), alert.Message)
	return err
}
