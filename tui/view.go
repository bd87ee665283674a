// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/color"
	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/shortdrama-cli/shortdrama/icon"
	"github.com/shortdrama-cli/shortdrama/playback"
	"github.com/shortdrama-cli/shortdrama/style"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
	bannerStyle           = lipgloss.NewStyle().Foreground(style.WarningColor)
	inlineErrorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case loginState:
		output = b.viewLogin()
	case homeState:
		output = b.viewHome()
	case searchState:
		output = b.viewSearch()
	case feedState:
		output = b.viewFeed()
	case playerState:
		output = b.viewPlayer()
	case episodesState:
		output = listExtraPaddingStyle.Render(b.episodesC.View())
	case qualityState:
		output = listExtraPaddingStyle.Render(b.qualityC.View())
	case shareState:
		output = listExtraPaddingStyle.Render(b.shareC.View())
	case myListState:
		output = listExtraPaddingStyle.Render(b.myListC.View())
	case profileState:
		output = b.viewProfile()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output, b.width)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		false,
		[]string{
			style.Title(constant.Brand),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		},
	)
}

func (b *statefulBubble) viewLogin() string {
	lines := []string{
		style.Title("Log in to " + constant.Brand),
		"",
		b.loginC.View(),
		b.passwordC.View(),
		"",
	}

	switch {
	case b.loading:
		lines = append(lines, b.spinnerC.View()+" "+b.progressStatus)
	case b.loginErr != "":
		lines = append(lines, icon.Get(icon.Fail)+" "+style.Fg(style.ErrorColor)(b.loginErr))
	default:
		lines = append(lines, style.Faint("tab to switch fields, enter to log in"))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewRubrics() string {
	titles := append([]string{"All"}, lo.Map(b.rubrics, func(r *catalog.Rubric, _ int) string { return r.Title })...)

	chips := lo.Map(titles, func(title string, i int) string {
		if i == b.rubricIndex {
			return style.Tag(style.Base, style.AccentColor)(title)
		}
		return style.Tag(style.Text, style.Surface)(title)
	})

	return style.Truncate(b.width)(strings.Join(chips, " "))
}

func (b *statefulBubble) bannerLine() string {
	if b.banner == "" {
		return ""
	}
	return bannerStyle.Render(style.Truncate(b.width)(icon.Get(icon.Fail) + " " + b.banner))
}

func (b *statefulBubble) viewHome() string {
	header := []string{b.viewRubrics()}
	if b.loading {
		header = append(header, b.spinnerC.View()+" "+b.progressStatus)
	} else {
		header = append(header, b.bannerLine())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		paddingStyle.Copy().PaddingBottom(0).Render(strings.Join(header, "\n")),
		listExtraPaddingStyle.Render(b.gridC.View()),
	)
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search"),
		"",
		b.inputC.View(),
	}

	if b.searchSuggestion.IsPresent() {
		suggestion := b.searchSuggestion.MustGet()
		if suggestion != strings.ToLower(strings.TrimSpace(b.inputC.Value())) {
			lines = append(lines, style.Faint(fmt.Sprintf("%s %s (%s to accept)",
				icon.Get(icon.Search), suggestion, b.keymap.acceptSearchSuggestion.Help().Key)))
		}
	}

	switch {
	case b.debouncer.Searching():
		lines = append(lines, "", b.spinnerC.View()+" Searching")
	case b.banner != "":
		lines = append(lines, "", b.bannerLine())
	case len(b.resultsC.Items()) > 0:
		return lipgloss.JoinVertical(
			lipgloss.Left,
			paddingStyle.Copy().PaddingBottom(0).Render(strings.Join(lines, "\n")),
			listExtraPaddingStyle.Render(b.resultsC.View()),
		)
	case b.debouncer.Term() != "":
		lines = append(lines, "", style.Faint("No videos found"))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewFeed() string {
	lines := []string{style.Title("Feed"), ""}

	v := b.feedVideo()
	switch {
	case b.loading:
		lines = append(lines, b.spinnerC.View()+" "+b.progressStatus)
	case b.banner != "":
		lines = append(lines, b.bannerLine())
	case v == nil:
		lines = append(lines, style.Faint("Nothing to watch yet"))
	default:
		title := v.CollectionTitle
		if title == "" {
			title = v.Title
		}

		saved := ""
		if b.services.saved.Contains(v.ID) {
			saved = " " + icon.Get(icon.Saved)
		}

		lines = append(lines,
			style.Fg(color.Purple)(fmt.Sprintf("%d / %d", b.feedIndex+1, len(b.feed))),
			"",
			style.Bold(title)+saved,
			style.Faint(strings.Join(lo.Without(lo.Compact([]string{v.Title, v.Runtime(), yearOf(v.Year)}), "0:00"), " • ")),
			"",
			wrap.String(v.Description, b.width),
		)
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewPlayer() string {
	s := b.playback
	if s == nil {
		title := ""
		if b.opening != nil {
			title = b.opening.Title
		}
		return b.renderLines(true, []string{
			style.Title("Now Playing"),
			"",
			style.Truncate(b.width)(icon.Get(icon.Play) + " " + style.Fg(color.Purple)(title)),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		})
	}

	v := s.Current()
	if v == nil {
		return b.renderLines(true, []string{style.Title("Now Playing"), "", style.Faint("Nothing to play")})
	}

	lines := []string{
		style.Title("Now Playing") + " " + style.Tag(style.Base, style.QualityColor)(s.Quality()),
		"",
		style.Truncate(b.width)(icon.Get(icon.Play) + " " + style.Fg(color.Purple)(v.Title)),
	}

	if collection := s.Collection(); collection != nil {
		_, episode := s.Position()
		lines = append(lines, style.Faint(fmt.Sprintf("%s • Episode %d/%d", collection.Title, episode+1, len(collection.Episodes))))
	}

	if b.services.saved.Contains(v.ID) {
		lines = append(lines, icon.Get(icon.Saved)+" In My List")
	}

	lines = append(lines, "", b.playerStatusLine())

	if b.playerErr != nil {
		lines = append(lines, "", inlineErrorStyle.Render(wrap.String(icon.Get(icon.Fail)+" "+b.playerErr.Error(), b.width)))
	}

	if b.banner != "" {
		lines = append(lines, b.bannerLine())
	}

	if v.Description != "" {
		lines = append(lines, "", wrap.String(v.Description, b.width))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) playerStatusLine() string {
	switch b.playerStatus {
	case playback.Loading:
		return b.spinnerC.View() + " Loading"
	case playback.Playing:
		return style.Fg(style.SuccessColor)("Playing")
	case playback.Paused:
		return style.Fg(style.WarningColor)("Paused")
	case playback.Ended:
		return style.Faint("Finished")
	case playback.Failed:
		return style.Fg(style.ErrorColor)("Playback failed")
	default:
		return style.Faint(b.playerStatus.String())
	}
}

func (b *statefulBubble) viewProfile() string {
	lines := []string{style.Title("Profile"), ""}

	if u := b.user; u != nil {
		name := u.FullName()
		if name == "" {
			name = u.DisplayName()
		}
		lines = append(lines, icon.Get(icon.User)+" "+style.Bold(name))
		for _, detail := range lo.Compact([]string{u.Email, u.MSISDN, u.Country}) {
			lines = append(lines, style.Faint(detail))
		}
		if u.Subscribed {
			lines = append(lines, style.Fg(style.SuccessColor)("Subscribed"))
		}
	}

	notifications := "off"
	if b.services.settings.Load().Enabled {
		notifications = "on"
	}
	lines = append(lines, "", icon.Get(icon.Bell)+" Notifications "+notifications)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		paddingStyle.Copy().PaddingBottom(0).Render(strings.Join(lines, "\n")),
		listExtraPaddingStyle.Render(b.historyC.View()),
	)
}

func (b *statefulBubble) viewError() string {
	errorBody := inlineErrorStyle.Render(b.lastError.Error())
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " Something went wrong:",
			"",
			wrap.String(errorBody, b.width),
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

func yearOf(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprint(year)
}
