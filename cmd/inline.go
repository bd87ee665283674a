// Package cmd implements the command-line interface for shortdrama.
package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/filesystem"
	"github.com/shortdrama-cli/shortdrama/inline"
	"github.com/shortdrama-cli/shortdrama/query"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("query", "q", "", "Search the catalog instead of listing it")
	inlineCmd.Flags().StringP("rubric", "r", "", "Category id to list when no query is given")
	inlineCmd.Flags().BoolP("shelves", "s", false, "List every category with the first episode of each series")
	inlineCmd.Flags().StringP("pick", "p", "", "Criteria for selecting a single video from the candidates")
	inlineCmd.Flags().StringP("title", "t", "", "Title matched by the exact and closest pickers (defaults to the query)")
	inlineCmd.Flags().BoolP("include-episodes", "E", false, "Include the episodes of each selected video's series")
	inlineCmd.Flags().StringP("episodes", "e", "", "Criteria for selecting episodes of the series")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")

	inlineCmd.MarkFlagsMutuallyExclusive("query", "rubric", "shelves")

	lo.Must0(inlineCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.Default().SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(inlineCmd.RegisterFlagCompletionFunc("pick", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"first", "last", "exact", "closest"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

// inlineCmd executes the application in non-interactive, scriptable inline mode.
var inlineCmd = &cobra.Command{
	Use:   "inline",
	Short: "Execute the application in non-interactive, scriptable inline mode",
	Long: `Query the catalog without the interface, for scripts and other programs.

Video pickers:
  first - first video in the list
  last - last video in the list
  exact - video whose title or series equals --title
  closest - video whose title or series is nearest to --title
  [number] - select video by index (starting from 0)

Episode selectors (with --include-episodes):
  first - first episode of the series
  last - last episode of the series
  all - every episode
  [number] - select episode by index (starting from 0)
  [from]-[to] - select episodes by range
  @[substring]@ - select episodes by title substring

Plain output prints one "id<TAB>title<TAB>stream url" line per video.`,
	Example: "  shortdrama inline -q ceo -p closest -E -e first -j",
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		q := lo.Must(cmd.Flags().GetString("query"))

		output := lo.Must(cmd.Flags().GetString("output"))
		var writer io.Writer
		if output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			writer = file
		} else {
			writer = os.Stdout
		}

		picker := mo.None[inline.VideoPicker]()
		if kind := lo.Must(cmd.Flags().GetString("pick")); kind != "" {
			title := lo.Must(cmd.Flags().GetString("title"))
			if title == "" {
				title = q
			}

			fn, err := inline.ParseVideoPicker(kind, title)
			handleErr(err)
			picker = mo.Some(fn)
		}

		filter := mo.None[inline.EpisodesFilter]()
		if description := lo.Must(cmd.Flags().GetString("episodes")); description != "" {
			fn, err := inline.ParseEpisodesFilter(description)
			handleErr(err)
			filter = mo.Some(fn)
		}

		options := &inline.Options{
			Out:            writer,
			Source:         catalog.Default(),
			Json:           lo.Must(cmd.Flags().GetBool("json")),
			Query:          q,
			Rubric:         lo.Must(cmd.Flags().GetString("rubric")),
			Shelves:        lo.Must(cmd.Flags().GetBool("shelves")),
			VideoPicker:    picker,
			EpisodesFilter: filter,
			Episodes:       lo.Must(cmd.Flags().GetBool("include-episodes")) || filter.IsPresent(),
		}

		err = inline.Run(context.Background(), options)
		handleErr(err)
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)
}

// inlineSchemaCmd generates the JSON schema of the inline mode output.
var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of the structured inline mode output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "video", "entry", "shelf", "rubric", "output":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&inline.Output{})))
	},
}
