package cmd

import (
	"encoding/json"
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shortdrama-cli/shortdrama/color"
	"github.com/shortdrama-cli/shortdrama/style"
	"github.com/shortdrama-cli/shortdrama/where"
	"github.com/spf13/cobra"
)

// whereTarget is a file or directory the application keeps, printable by `where --<flag>`.
type whereTarget struct {
	name  string
	flag  string
	short mo.Option[string]
	path  func() string
	data  bool
}

var wherePaths = []whereTarget{
	{name: "Config", flag: "config", short: mo.Some("c"), path: where.Config},
	{name: "Logs", flag: "logs", short: mo.Some("l"), path: where.Logs},
	{name: "Cache", flag: "cache", path: where.Cache},
	{name: "Temp", flag: "temp", path: where.Temp},
	{name: "My List", flag: "saved", path: where.Saved, data: true},
	{name: "Watch history", flag: "history", path: where.History, data: true},
	{name: "Notification settings", flag: "notifications", path: where.Notifications, data: true},
	{name: "Search suggestions", flag: "queries", path: where.Queries, data: true},
	{name: "Event journal", flag: "events", path: where.Events, data: true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, t := range wherePaths {
		if short, ok := t.short.Get(); ok {
			whereCmd.Flags().BoolP(t.flag, short, false, t.name+" path")
		} else {
			whereCmd.Flags().Bool(t.flag, false, t.name+" path")
		}
	}

	whereCmd.Flags().BoolP("all", "a", false, "Include data files")
	whereCmd.Flags().BoolP("json", "j", false, "Print every path as JSON")

	whereCmd.MarkFlagsMutuallyExclusive(append(lo.Map(wherePaths, func(t whereTarget, _ int) string {
		return t.flag
	}), "json")...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where settings, logs and data are stored",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range wherePaths {
			if lo.Must(cmd.Flags().GetBool(t.flag)) {
				cmd.Println(t.path())
				return
			}
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			paths := lo.SliceToMap(wherePaths, func(t whereTarget) (string, string) {
				return t.flag, t.path()
			})
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(paths))
			return
		}

		all := lo.Must(cmd.Flags().GetBool("all"))
		header := style.New().Bold(true).Foreground(color.HiPurple).Render

		shown := lo.Filter(wherePaths, func(t whereTarget, _ int) bool {
			return all || !t.data
		})

		for i, t := range shown {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n", header(t.name), style.Fg(color.Yellow)("--"+t.flag))
			cmd.Println(t.path())
		}
	},
}
