// Package notify publishes user-facing notifications to the in-app toast area and the desktop.
package notify

import (
	"github.com/google/uuid"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/constant"
)

// Notification is a single message for the user.
type Notification struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
	Icon  string    `json:"icon,omitempty"`
}

// New returns a notification with a fresh id.
func New(title, body, icon string) Notification {
	return Notification{ID: uuid.New(), Title: title, Body: body, Icon: icon}
}

const nowWatchingBodyLimit = 100

// NowWatching announces the first playback of v.
func NowWatching(v *catalog.Video) Notification {
	body := []rune(v.Description)
	if len(body) > nowWatchingBodyLimit {
		body = body[:nowWatchingBodyLimit]
	}

	return New("Now Watching: "+v.Title, string(body)+"...", v.CoverURL())
}

// Enabled is shown right after the user turns notifications on.
func Enabled() Notification {
	return New(
		constant.Brand+" Notifications Enabled",
		"You will now receive notifications about new episodes and updates.",
		"",
	)
}

// Samples feed the periodic scheduler.
var Samples = []struct{ Title, Body string }{
	{"New Episode Available", "Hollywood Star's Fake Girlfriend S01E05 is now streaming!"},
	{"Continue Watching", "Continue watching Mafia Lord's Son Has Secret Love For His Stepmom"},
	{"Weekly Recommendation", "Based on your watch history, you might enjoy 'Hidden Identity'"},
	{"Content Update", "5 new series have been added to our library this week!"},
	{"Premium Offer", "Upgrade to Premium today and get 15% off your first month!"},
}
