package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/color"
	"github.com/shortdrama-cli/shortdrama/config"
	"github.com/shortdrama-cli/shortdrama/filesystem"
	"github.com/shortdrama-cli/shortdrama/icon"
	"github.com/shortdrama-cli/shortdrama/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// writeConfig persists viper's values, creating the config file on first use.
func writeConfig() {
	handleErr(config.Write())
}

func success(format string, args ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, args...))
}

func completionConfigKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.Keys(), cobra.ShellCompDirectiveNoFileComp
}

func completionConfigValues(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return config.Keys(), cobra.ShellCompDirectiveNoFileComp
	case 1:
		if field, err := config.Lookup(args[0]); err == nil {
			if _, ok := field.Value.(bool); ok {
				return []string{"true", "false"}, cobra.ShellCompDirectiveNoFileComp
			}
			return field.Choices, cobra.ShellCompDirectiveNoFileComp
		}
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Only show these keys")
	configInfoCmd.Flags().StringP("section", "s", "", "Only show keys of a section, e.g. player")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	configInfoCmd.MarkFlagsMutuallyExclusive("key", "section")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
	_ = configInfoCmd.RegisterFlagCompletionFunc("section", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Keys(config.Sections()), cobra.ShellCompDirectiveNoFileComp
	})

	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings with their current and default values",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			keys    = lo.Must(cmd.Flags().GetStringSlice("key"))
			section = lo.Must(cmd.Flags().GetString("section"))
			asJson  = lo.Must(cmd.Flags().GetBool("json"))
			fields  []config.Field
		)

		switch {
		case len(keys) > 0:
			for _, k := range keys {
				field, err := config.Lookup(k)
				handleErr(err)
				fields = append(fields, field)
			}
		case section != "":
			var ok bool
			if fields, ok = config.Sections()[section]; !ok {
				handleErr(fmt.Errorf("unknown section %s", style.Fg(color.Red)(section)))
			}
		default:
			fields = lo.Map(config.Keys(), func(k string, _ int) config.Field { return config.Default[k] })
		}

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(lo.ToSlicePtr(fields)))
			return
		}

		for i := range fields {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(fields[i].Pretty())
		}
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>...",
	Short:             "Change a setting and save it",
	Example:           "  shortdrama config set player.wrap_around true",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionConfigValues,
	Run: func(cmd *cobra.Command, args []string) {
		value, err := config.Set(args[0], args[1:])
		handleErr(err)
		writeConfig()

		success("set %s to %s", style.Fg(color.Purple)(args[0]), style.Fg(color.Yellow)(fmt.Sprint(value)))
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the current value of a setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field, err := config.Lookup(args[0])
		handleErr(err)
		fmt.Println(field.Current())
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every setting")
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key]",
	Short:             "Restore the default value of a setting",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))

		switch {
		case all && len(args) == 0:
			for _, k := range config.Keys() {
				lo.Must(config.Reset(k))
			}
			writeConfig()
			success("reset all settings")
		case !all && len(args) == 1:
			value, err := config.Reset(args[0])
			handleErr(err)
			writeConfig()
			success("reset %s to %s", style.Fg(color.Purple)(args[0]), style.Fg(color.Yellow)(fmt.Sprint(value)))
		default:
			handleErr(fmt.Errorf("pass either a key or --all"))
		}
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Save the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := config.FilePath()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := filesystem.API().Remove(path); err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfigAs(path))
		success("wrote config to %s", path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(config.FilePath()))
		success("deleted config")
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.FilePath())
	},
}
