package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/spf13/viper"
)

// DesktopSink forwards notifications to the operating system notification center.
// Delivery is best effort and requires notifications to be enabled.
type DesktopSink struct {
	store *Store
	goos  string
	run   func(name string, args ...string) error
}

// NewDesktopSink returns a sink for the current platform.
func NewDesktopSink(store *Store) *DesktopSink {
	return &DesktopSink{
		store: store,
		goos:  runtime.GOOS,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Deliver shows n on the desktop if allowed.
func (d *DesktopSink) Deliver(n Notification) error {
	if !viper.GetBool(key.NotificationsDesktop) || !d.store.Load().Enabled {
		return nil
	}

	name, args, err := desktopCommand(d.goos, n)
	if err != nil {
		return err
	}

	return d.run(name, args...)
}

// Run delivers notifications from ch until it closes or ctx ends.
func (d *DesktopSink) Run(ctx context.Context, ch <-chan Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := d.Deliver(n); err != nil {
				log.Warnf("desktop notification: %v", err)
			}
		}
	}
}

func desktopCommand(goos string, n Notification) (string, []string, error) {
	switch goos {
	case constant.Linux:
		return "notify-send", []string{"--app-name=" + constant.Brand, n.Title, n.Body}, nil
	case constant.Darwin:
		script := fmt.Sprintf("display notification %s with title %s", appleQuote(n.Body), appleQuote(n.Title))
		return "osascript", []string{"-e", script}, nil
	case constant.Windows:
		script := fmt.Sprintf(
			`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] > $null; `+
				`$t = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02); `+
				`$x = $t.GetElementsByTagName('text'); $x.Item(0).InnerText = %s; $x.Item(1).InnerText = %s; `+
				`[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s).Show([Windows.UI.Notifications.ToastNotification]::new($t))`,
			psQuote(n.Title), psQuote(n.Body), psQuote(constant.Brand),
		)
		return "powershell", []string{"-NoProfile", "-NonInteractive", "-Command", script}, nil
	default:
		return "", nil, fmt.Errorf("desktop notifications are not supported on %s", goos)
	}
}

func appleQuote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
