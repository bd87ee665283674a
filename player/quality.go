package player

import (
	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/spf13/viper"
)

// Qualities are the display labels offered by the quality menu. Choosing one does
// not renegotiate the stream, the player keeps the rendition it picked.
var Qualities = []string{"1080p", "720p", "480p", "360p"}

// FallbackQuality is used when the configured default is not a known label.
const FallbackQuality = "720p"

// DefaultQuality returns the configured quality label.
func DefaultQuality() string {
	return NormalizeQuality(viper.GetString(key.PlayerDefaultQuality))
}

// NormalizeQuality maps unknown labels to FallbackQuality.
func NormalizeQuality(label string) string {
	if lo.Contains(Qualities, label) {
		return label
	}
	return FallbackQuality
}
