// Package share builds public links for posting a video to social networks.
package share

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/open"
	"github.com/spf13/viper"
)

// Target is a share destination.
type Target int

const (
	Facebook Target = iota
	X
	WhatsApp
	Copy
)

// Targets lists the destinations in menu order.
var Targets = []Target{Facebook, X, WhatsApp, Copy}

var hashtags = []string{constant.Brand, "Drama", "Series"}

func (t Target) String() string {
	switch t {
	case Facebook:
		return "Facebook"
	case X:
		return "X"
	case WhatsApp:
		return "WhatsApp"
	case Copy:
		return "Copy link"
	default:
		return fmt.Sprintf("target(%d)", int(t))
	}
}

// Link is what gets shared for a video.
type Link struct {
	URL  string
	Text string
}

// For returns the public link of v under base.
func For(base string, v *catalog.Video) Link {
	return Link{
		URL:  strings.TrimRight(base, "/") + "/video/" + strconv.Itoa(v.ID),
		Text: fmt.Sprintf("Check out %q on %s!", v.Title, constant.Brand),
	}
}

// Default returns the link of v under the configured share.base_url.
func Default(v *catalog.Video) Link {
	return For(viper.GetString(key.ShareBaseURL), v)
}

// Address returns the address that shares l on target. Copy yields the bare link.
func (l Link) Address(target Target) string {
	switch target {
	case Facebook:
		return "https://www.facebook.com/sharer/sharer.php?" + url.Values{"u": {l.URL}}.Encode()
	case X:
		return "https://twitter.com/intent/tweet?" + url.Values{
			"url":      {l.URL},
			"text":     {l.Text},
			"hashtags": {strings.Join(hashtags, ",")},
		}.Encode()
	case WhatsApp:
		return "https://wa.me/?" + url.Values{"text": {l.Text + " " + l.URL}}.Encode()
	default:
		return l.URL
	}
}

// Open launches the browser on the share address. Copy only returns the link.
func (l Link) Open(target Target) (string, error) {
	address := l.Address(target)
	if target == Copy {
		return address, nil
	}
	return address, open.Start(address)
}
