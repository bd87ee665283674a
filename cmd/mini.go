// Package cmd implements the command-line interface for shortdrama.
package cmd

import (
	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/mini"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(miniCmd)

	miniCmd.Flags().BoolP("history", "c", false, "Start from the watch history")
}

// miniCmd launches the application in a lightweight prompt interface.
var miniCmd = &cobra.Command{
	Use:   "mini",
	Short: "Launch the application in a lightweight prompt interface",
	Long:  `Browse, search and play videos through a sequence of simple prompts instead of the full-screen interface.`,
	Run: func(cmd *cobra.Command, args []string) {
		options := mini.Options{
			History: lo.Must(cmd.Flags().GetBool("history")),
		}
		handleErr(mini.Run(&options))
	},
}
