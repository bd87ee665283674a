package mini

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shortdrama-cli/shortdrama/color"
	"github.com/shortdrama-cli/shortdrama/icon"
	"github.com/shortdrama-cli/shortdrama/style"
	"github.com/shortdrama-cli/shortdrama/util"
	"github.com/samber/lo"
)

// bind is a menu entry that is not an item of the list being shown.
type bind struct {
	name string
}

func (b *bind) String() string {
	return b.name
}

func (b *bind) eq(other *bind) bool {
	return b == other
}

var (
	quit       = &bind{"Quit"}
	back       = &bind{"Back"}
	search     = &bind{"Search"}
	categories = &bind{"Browse categories"}
	myList     = &bind{"My List"}
	history    = &bind{"Watch history"}
	logout     = &bind{"Log out"}
	next       = &bind{"Next episode"}
	prev       = &bind{"Previous episode"}
	nextSeries = &bind{"Next series"}
	prevSeries = &bind{"Previous series"}
	pause      = &bind{"Pause / resume"}
	replay     = &bind{"Replay"}
	save       = &bind{"Save / unsave"}
	shareLink  = &bind{"Share"}
	episodes   = &bind{"Episodes"}
)

// errInterrupted is returned by prompts when the user pressed ctrl+c.
var errInterrupted = errors.New("interrupted")

func title(t string) {
	fmt.Println(style.Bold(style.Fg(color.Purple)(t)))
}

func fail(msg string) {
	fmt.Println(style.Fg(color.Red)(icon.Get(icon.Fail) + " " + msg))
}

func succeed(msg string) {
	fmt.Println(style.Fg(color.Green)(icon.Get(icon.Success) + " " + msg))
}

func progress(msg string) (erase func()) {
	return util.PrintErasable(icon.Get(icon.Progress) + " " + style.Faint(msg))
}

func interrupted(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errInterrupted
	}
	return err
}

func truncate(s string) string {
	if truncateAt > 3 && len([]rune(s)) > truncateAt-3 {
		return string([]rune(s)[:truncateAt-4]) + "…"
	}
	return s
}

// fuzzyFilter narrows menus as the user types, ignoring case.
func fuzzyFilter(filter, option string, _ int) bool {
	return filter == "" || fuzzy.MatchFold(filter, option)
}

// menu asks the user to pick one of items or one of the binds.
// Exactly one of the returned bind and item is set.
func menu[T fmt.Stringer](message string, items []T, binds ...*bind) (*bind, T, error) {
	var zero T

	options := lo.Map(items, func(item T, i int) string {
		return truncate(fmt.Sprintf("%d. %s", i+1, item.String()))
	})
	options = append(options, lo.Map(binds, func(b *bind, _ int) string { return b.String() })...)

	var index int
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: util.Min(len(options), 15),
	}
	if err := survey.AskOne(prompt, &index, survey.WithFilter(fuzzyFilter)); err != nil {
		return nil, zero, interrupted(err)
	}

	if index < len(items) {
		return nil, items[index], nil
	}
	return binds[index-len(items)], zero, nil
}

// actions asks the user to pick one of the binds.
func actions(message string, binds ...*bind) (*bind, error) {
	b, _, err := menu[*bind](message, nil, binds...)
	return b, err
}

type input struct {
	value string
}

func getInput(message string, validate func(string) bool) (*input, error) {
	var value string
	prompt := &survey.Input{Message: message}

	err := survey.AskOne(prompt, &value, survey.WithValidator(func(ans any) error {
		if s, ok := ans.(string); ok && validate(s) {
			return nil
		}
		return errors.New("invalid input")
	}))
	if err != nil {
		return nil, interrupted(err)
	}

	return &input{value: value}, nil
}

func getPassword(message string) (string, error) {
	var value string
	err := survey.AskOne(&survey.Password{Message: message}, &value, survey.WithValidator(survey.Required))
	return value, interrupted(err)
}

func searchPrompt(suggest func(string) []string) *survey.Input {
	return &survey.Input{
		Message: "Search",
		Help:    "tab completes previous searches, leave empty to go back",
		Suggest: suggest,
	}
}

func askOne(prompt survey.Prompt, response any) error {
	return interrupted(survey.AskOne(prompt, response))
}
