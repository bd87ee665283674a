// Package cmd implements the command-line interface for shortdrama.
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/icon"
	"github.com/shortdrama-cli/shortdrama/library"
	"github.com/shortdrama-cli/shortdrama/style"
	"github.com/shortdrama-cli/shortdrama/util"
	"github.com/spf13/cobra"
)

// videoList is what the saved and history commands operate on.
type videoList interface {
	All() []*catalog.Video
	Remove(id int) error
	Clear() error
}

// listCommands builds the list/remove/clear subcommands of parent for a video list.
func listCommands(parent *cobra.Command, name string, open func() videoList) {
	list := &cobra.Command{
		Use:   "list",
		Short: "List the videos in " + name,
		Run: func(cmd *cobra.Command, args []string) {
			videos := open().All()
			if len(videos) == 0 {
				cmd.Println(util.Capitalize(name) + " is empty")
				return
			}

			for _, v := range videos {
				cmd.Printf("%s\t%s %s\n", style.Faint(strconv.Itoa(v.ID)), v.Title, style.Faint(v.CollectionTitle))
			}
			cmd.Println(style.Faint(util.Quantify(len(videos), "video", "videos")))
		},
	}
	list.SetOut(os.Stdout)

	remove := &cobra.Command{
		Use:   "remove [id]",
		Short: "Remove a video from " + name,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				handleErr(fmt.Errorf("invalid video id %q", args[0]))
			}

			handleErr(open().Remove(id))
			cmd.Printf("%s Removed %d from %s\n", icon.Get(icon.Success), id, name)
		},
	}

	wipe := &cobra.Command{
		Use:   "clear",
		Short: "Remove every video from " + name,
		Run: func(cmd *cobra.Command, args []string) {
			handleErr(open().Clear())
			cmd.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(name))
		},
	}

	parent.AddCommand(list, remove, wipe)
}

func init() {
	rootCmd.AddCommand(savedCmd)
	listCommands(savedCmd, "my list", func() videoList { return library.DefaultSaved() })
}

// savedCmd manages the saved videos.
var savedCmd = &cobra.Command{
	Use:     "saved",
	Aliases: []string{"mylist"},
	Short:   "Manage the videos saved to My List",
}

func init() {
	rootCmd.AddCommand(historyCmd)
	listCommands(historyCmd, "watch history", func() videoList { return library.DefaultHistory() })
}

// historyCmd manages the watch history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the watch history",
}
