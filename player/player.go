// Package player drives an external media player through a narrow lifecycle interface.
// The bundled backend controls mpv over its JSON-IPC socket.
package player

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/spf13/viper"
)

// Availability polling bounds.
const (
	PollInterval = 100 * time.Millisecond
	PollAttempts = 50
)

// ErrPlayerUnavailable is returned when the player cannot be brought up within the polling bounds.
var ErrPlayerUnavailable = errors.New("video player failed to load")

// EventKind enumerates the lifecycle notifications a Player emits.
type EventKind int

const (
	// EventReady fires once the player accepts commands.
	EventReady EventKind = iota
	// EventPlay fires whenever playback starts or resumes.
	EventPlay
	// EventPause fires when playback is suspended.
	EventPause
	// EventComplete fires when the media reaches its end.
	EventComplete
	// EventError fires when the media cannot be played.
	EventError
	// EventExit fires when the player goes away on its own, e.g. the user closed its window.
	EventExit
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventComplete:
		return "complete"
	case EventError:
		return "error"
	case EventExit:
		return "exit"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a single lifecycle notification.
type Event struct {
	Kind EventKind
	Err  error
}

// Media is what gets handed to the player.
type Media struct {
	URL   string
	Title string
	Cover string
}

// Player is a single live playback instance. Close must be safe to call more than once.
type Player interface {
	// Load starts playback of media.
	Load(ctx context.Context, media Media) error

	// Events delivers lifecycle notifications until the player is closed.
	Events() <-chan Event

	TogglePause() error
	Seek(seconds float64) error

	// Close stops playback and releases the player. Subsequent calls are no-ops.
	Close() error
}

// Factory constructs a fresh Player.
type Factory func() Player

// Await calls probe every interval until it succeeds, giving up with ErrPlayerUnavailable
// after attempts failed probes. It returns early with the context error when ctx ends.
func Await(ctx context.Context, probe func() bool, interval time.Duration, attempts int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if probe() {
			return nil
		}

		if attempt >= attempts {
			return ErrPlayerUnavailable
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Binary returns the configured mpv executable.
func Binary() string {
	if bin := viper.GetString(key.PlayerMPVPath); bin != "" {
		return bin
	}
	return "mpv"
}

// Installed reports whether the configured mpv executable can be found.
func Installed() bool {
	_, err := exec.LookPath(Binary())
	return err == nil
}
