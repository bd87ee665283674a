// Package cmd implements the command-line interface for shortdrama.
package cmd

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/account"
	"github.com/shortdrama-cli/shortdrama/analytics"
	"github.com/shortdrama-cli/shortdrama/color"
	"github.com/shortdrama-cli/shortdrama/icon"
	"github.com/shortdrama-cli/shortdrama/session"
	"github.com/shortdrama-cli/shortdrama/style"
	"github.com/spf13/cobra"
)

const accountTimeout = time.Minute

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringP("login", "l", "", "Email or phone number")
	loginCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
}

// loginCmd signs in and stores the session in the OS keyring.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Run: func(cmd *cobra.Command, args []string) {
		login := lo.Must(cmd.Flags().GetString("login"))
		password := lo.Must(cmd.Flags().GetString("password"))

		if login == "" {
			handleErr(survey.AskOne(&survey.Input{Message: "Email or phone number"}, &login, survey.WithValidator(survey.Required)))
		}
		if password == "" {
			handleErr(survey.AskOne(&survey.Password{Message: "Password"}, &password, survey.WithValidator(survey.Required)))
		}

		ctx, cancel := context.WithTimeout(context.Background(), accountTimeout)
		defer cancel()

		_, user, err := session.Login(ctx, account.Default(), strings.TrimSpace(login), password)
		analytics.Default().Login("email", err == nil)
		if errors.Is(err, account.ErrInvalidCredentials) {
			handleErr(errors.New("invalid login or password"))
		}
		handleErr(err)

		cmd.Printf("%s Logged in as %s\n", icon.Get(icon.Success), style.Bold(user.DisplayName()))
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// logoutCmd forgets the stored session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := session.Load(); errors.Is(err, session.ErrNoSession) {
			cmd.Println("Not logged in")
			return
		}

		handleErr(session.Clear())
		analytics.Default().Logout("email")
		cmd.Printf("%s Logged out\n", icon.Get(icon.Success))
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
	whoamiCmd.SetOut(os.Stdout)
}

// whoamiCmd validates the stored session and prints the account it belongs to.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed in account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), accountTimeout)
		defer cancel()

		_, user, err := session.NewRestorer(account.Default()).Restore(ctx)
		handleErr(err)

		faint := style.Faint
		cmd.Printf("%s %s\n", icon.Get(icon.User), style.Bold(lo.Ternary(user.FullName() != "", user.FullName(), user.DisplayName())))
		for _, row := range [][2]string{
			{"id", user.ID},
			{"email", user.Email},
			{"phone", user.MSISDN},
			{"country", user.Country},
		} {
			if row[1] != "" {
				cmd.Printf("  %s %s\n", faint(row[0]), row[1])
			}
		}

		if user.Subscribed {
			cmd.Println("  " + style.Fg(color.Green)("subscribed"))
		} else {
			cmd.Println("  " + style.Fg(color.Yellow)("not subscribed"))
		}
	},
}
