// Package cmd implements the command-line interface for shortdrama.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/color"
	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/shortdrama-cli/shortdrama/icon"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/shortdrama-cli/shortdrama/style"
	"github.com/shortdrama-cli/shortdrama/tui"
	"github.com/shortdrama-cli/shortdrama/util"
	"github.com/shortdrama-cli/shortdrama/version"
	"github.com/shortdrama-cli/shortdrama/where"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Record played videos in the watch history")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnPlay, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.Flags().StringP("route", "r", tui.RouteHome, "Screen to open once signed in ("+strings.Join(tui.Routes, ", ")+")")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("route", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return tui.Routes, cobra.ShellCompDirectiveNoFileComp
	}))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		notifyVersion()
	})
}

const tagline = "    - Browse and binge short drama series from your terminal"

var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Browse and binge short drama series from your terminal",
	Long:  constant.AsciiArtLogo + "\n" + style.New().Italic(true).Foreground(color.Coral).Render(tagline),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if variant := viper.GetString(key.IconsVariant); variant != "" && !icon.Valid(variant) {
			return fmt.Errorf("unknown icons variant %q, expected one of %s", variant, strings.Join(icon.AvailableVariants(), ", "))
		}

		go func() {
			if err := util.Delete(where.Temp()); err != nil {
				log.Warnf("cleaning temp dir: %v", err)
			}
		}()
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		route := lo.Must(cmd.Flags().GetString("route"))
		if !lo.Contains(tui.Routes, route) {
			handleErr(fmt.Errorf("unknown route %q, expected one of %s", route, strings.Join(tui.Routes, ", ")))
		}

		warnMissingPlayer()

		options := tui.Options{
			Route: route,
		}
		handleErr(tui.Run(&options))
	},
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func notifyVersion() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	version.Notify(ctx)
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
