package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shortdrama-cli/shortdrama/icon"
	"github.com/shortdrama-cli/shortdrama/util"
	"github.com/shortdrama-cli/shortdrama/where"
	"github.com/spf13/cobra"
)

type clearTarget struct {
	name  string
	flag  string
	short mo.Option[string]
	path  func() string
	// personal data asks for confirmation unless --yes is given
	personal bool
}

var clearTargets = []clearTarget{
	{name: "cache", flag: "cache", short: mo.Some("c"), path: where.Cache},
	{name: "watch history", flag: "history", short: mo.Some("s"), path: where.History, personal: true},
	{name: "my list", flag: "saved", path: where.Saved, personal: true},
	{name: "search suggestions", flag: "queries", short: mo.Some("q"), path: where.Queries},
	{name: "event journal", flag: "events", short: mo.Some("e"), path: where.Events},
	{name: "notification settings", flag: "notifications", path: where.Notifications},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, t := range clearTargets {
		help := "Clear the " + t.name
		if short, ok := t.short.Get(); ok {
			clearCmd.Flags().BoolP(t.flag, short, false, help)
		} else {
			clearCmd.Flags().Bool(t.flag, false, help)
		}
	}

	clearCmd.Flags().BoolP("all", "a", false, "Clear everything above")
	clearCmd.Flags().BoolP("yes", "y", false, "Do not ask before removing personal data")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached and stored data",
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		yes := lo.Must(cmd.Flags().GetBool("yes"))

		selected := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return all || lo.Must(cmd.Flags().GetBool(t.flag))
		})

		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, t := range selected {
			if t.personal && !yes {
				var confirmed bool
				handleErr(survey.AskOne(&survey.Confirm{
					Message: fmt.Sprintf("Remove your %s?", t.name),
				}, &confirmed))
				if !confirmed {
					continue
				}
			}

			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), t.name))
			err := util.Delete(t.path())
			erase()
			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(t.name))
		}
	},
}
