// Package cmd implements the command-line interface for shortdrama.
package cmd

import (
	"context"
	"fmt"
	"net/url"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/shortdrama-cli/shortdrama/icon"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/network"
	"github.com/shortdrama-cli/shortdrama/player"
	"github.com/shortdrama-cli/shortdrama/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkCmd reports whether the player and the content APIs are reachable.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the video player and the content APIs are available",
	Run: func(cmd *cobra.Command, args []string) {
		ok := true

		if player.Installed() {
			cmd.Printf("%s player %s\n", icon.Get(icon.Success), player.Binary())
		} else {
			ok = false
			printMissingDependencyError(player.Binary())
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for _, api := range []struct{ name, key string }{
			{"catalog", key.CatalogBaseURL},
			{"account", key.AccountBaseURL},
		} {
			host := hostPort(viper.GetString(api.key))
			if host != "" && network.Online(ctx, host) {
				cmd.Printf("%s %s API %s\n", icon.Get(icon.Success), api.name, host)
				continue
			}

			ok = false
			cmd.Printf("%s %s API %s is unreachable\n", icon.Get(icon.Fail), api.name, style.Faint(viper.GetString(api.key)))
		}

		if !ok {
			handleErr(fmt.Errorf("%s is not ready to play", constant.Brand))
		}
	},
}

// warnMissingPlayer prints the install hint without stopping; playback reports the missing player inline.
func warnMissingPlayer() {
	if !player.Installed() {
		printMissingDependencyError(player.Binary())
	}
}

func hostPort(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return ""
	}

	if u.Port() != "" {
		return u.Host
	}

	if u.Scheme == "http" {
		return u.Host + ":80"
	}
	return u.Host + ":443"
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install mpv"
	case constant.Linux:
		installCmd = "sudo apt install mpv"
	case constant.Windows:
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Missing video player", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("'%s' was not found in your PATH. Videos cannot be played until it is installed.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
