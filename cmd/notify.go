// Package cmd implements the command-line interface for shortdrama.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/shortdrama-cli/shortdrama/color"
	"github.com/shortdrama-cli/shortdrama/icon"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/notify"
	"github.com/shortdrama-cli/shortdrama/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyEnableCmd, notifyDisableCmd, notifyStatusCmd, notifyTestCmd)
	notifyEnableCmd.Flags().BoolP("yes", "y", false, "Do not ask about desktop notifications")
	notifyStatusCmd.SetOut(os.Stdout)
}

// notifyCmd groups the notification settings commands.
var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Manage notifications about new episodes",
}

var notifyEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable notifications",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(notify.DefaultStore().Enable(time.Now()))

		skip, _ := cmd.Flags().GetBool("yes")
		if !skip {
			desktop := viper.GetBool(key.NotificationsDesktop)
			prompt := &survey.Confirm{
				Message: "Also show notifications on the desktop?",
				Default: desktop,
			}
			handleErr(survey.AskOne(prompt, &desktop))

			if desktop != viper.GetBool(key.NotificationsDesktop) {
				viper.Set(key.NotificationsDesktop, desktop)
				writeConfig()
			}
		}

		n := notify.Enabled()
		cmd.Printf("%s %s\n", icon.Get(icon.Bell), n.Title)
	},
}

var notifyDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable notifications",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(notify.DefaultStore().Disable())
		cmd.Printf("%s Notifications disabled\n", icon.Get(icon.Success))
	},
}

var notifyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether notifications are enabled",
	Run: func(cmd *cobra.Command, args []string) {
		settings := notify.DefaultStore().Load()

		state := style.Fg(color.Red)("disabled")
		if settings.Enabled {
			state = style.Fg(color.Green)("enabled")
		}
		cmd.Printf("%s Notifications %s\n", icon.Get(icon.Bell), state)

		if last, ok := settings.Last(); ok {
			cmd.Printf("  %s %s\n", style.Faint("last sent"), last.Format(time.RFC1123))
		}
		cmd.Printf("  %s %s\n", style.Faint("schedule"), viper.GetString(key.NotificationsSchedule))
		cmd.Printf("  %s %t\n", style.Faint("desktop"), viper.GetBool(key.NotificationsDesktop))
	},
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a sample desktop notification",
	Run: func(cmd *cobra.Command, args []string) {
		store := notify.DefaultStore()
		if !store.Load().Enabled {
			handleErr(errors.New("notifications are disabled, run `notify enable` first"))
		}
		if !viper.GetBool(key.NotificationsDesktop) {
			handleErr(fmt.Errorf("desktop notifications are off, set %s to true", key.NotificationsDesktop))
		}

		sample := notify.Samples[0]
		handleErr(notify.NewDesktopSink(store).Deliver(notify.New(sample.Title, sample.Body, "")))
		handleErr(store.Touch(time.Now()))
		cmd.Printf("%s Sent %q\n", icon.Get(icon.Success), sample.Title)
	},
}
