package player

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/shortdrama-cli/shortdrama/log"
)

const (
	eventBuffer  = 32
	quitDeadline = 3 * time.Second
)

// MPV is a Player backed by an mpv process controlled over JSON-IPC.
type MPV struct {
	binary     string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	listener   *EventListener

	ipcMu sync.Mutex

	mu      sync.Mutex
	events  chan Event
	closed  bool
	started bool
	playing bool

	position atomic.Uint64
	once     sync.Once
}

// NewMPV returns an idle player that will run binary.
func NewMPV(binary string) *MPV {
	return &MPV{
		binary: binary,
		exited: make(chan struct{}),
		events: make(chan Event, eventBuffer),
	}
}

// Events implements Player.
func (m *MPV) Events() <-chan Event {
	return m.events
}

// Load starts mpv for media and waits until its IPC socket answers.
func (m *MPV) Load(ctx context.Context, media Media) error {
	safeURL, err := sanitizeMediaTarget(media.URL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	safeTitle := sanitizeTitle(media.Title)

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.App, randomBytes))

	// Only the socket, title and target are passed so the user's mpv.conf stays in charge.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", safeTitle),
		fmt.Sprintf("--title=%s", safeTitle),
		"--force-window=yes",
		"--idle=yes",
		"--",
		safeURL,
	}

	m.cmd = exec.Command(m.binary, args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := Await(ctx, m.socketReady, PollInterval, PollAttempts); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, []string{"pause", "time-pos"}, m.handle)
	if err := m.listener.Start(); err != nil {
		_ = m.Close()
		return err
	}

	go m.watchExit()

	m.emit(Event{Kind: EventReady})
	return nil
}

func (m *MPV) socketReady() bool {
	select {
	case <-m.exited:
		return false
	default:
	}

	conn, err := net.DialTimeout("unix", m.socketPath, PollInterval)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func (m *MPV) watchExit() {
	<-m.exited

	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()

	if !closed {
		m.emit(Event{Kind: EventExit})
	}
}

// handle translates raw mpv notifications into lifecycle events.
func (m *MPV) handle(name string, data any) {
	switch name {
	case "playback-restart":
		m.transition(true)
	case "pause":
		paused, ok := data.(bool)
		if !ok {
			return
		}

		m.mu.Lock()
		started := m.started
		m.mu.Unlock()

		if started {
			m.transition(!paused)
		}
	case "time-pos":
		if pos, ok := data.(float64); ok {
			m.position.Store(math.Float64bits(pos))
		}
	case "end-file":
		event, _ := data.(map[string]any)
		reason, _ := event["reason"].(string)
		switch reason {
		case "eof":
			m.emit(Event{Kind: EventComplete})
		case "error":
			msg, _ := event["file_error"].(string)
			if msg == "" {
				msg = "unknown error"
			}
			m.emit(Event{Kind: EventError, Err: fmt.Errorf("mpv: %s", msg)})
		}
	}
}

func (m *MPV) transition(playing bool) {
	m.mu.Lock()
	m.started = true
	changed := m.playing != playing
	m.playing = playing
	m.mu.Unlock()

	if !changed {
		return
	}

	if playing {
		m.emit(Event{Kind: EventPlay})
	} else {
		m.emit(Event{Kind: EventPause})
	}
}

func (m *MPV) emit(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	select {
	case m.events <- event:
	default:
		log.Warnf("mpv: dropping %s event, consumer is not keeping up", event.Kind)
	}
}

// Position returns the last observed playback position in seconds.
func (m *MPV) Position() float64 {
	return math.Float64frombits(m.position.Load())
}

// TogglePause implements Player.
func (m *MPV) TogglePause() error {
	_, err := m.sendCommand([]any{"cycle", "pause"})
	return err
}

// Seek implements Player.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand([]any{"seek", seconds, "absolute"})
	return err
}

// Close asks mpv to quit, kills it if it lingers and removes the socket.
func (m *MPV) Close() error {
	m.once.Do(func() {
		m.mu.Lock()
		m.closed = true
		close(m.events)
		m.mu.Unlock()

		if m.listener != nil {
			m.listener.Stop()
		}

		if m.cmd == nil || m.cmd.Process == nil {
			return
		}

		_, _ = m.sendCommand([]any{"quit"})

		select {
		case <-m.exited:
		case <-time.After(quitDeadline):
			_ = killProcess(m.cmd)
		}

		_ = os.Remove(m.socketPath)
	})

	return nil
}

// sanitizeMediaTarget rejects targets that mpv could mistake for flags or that use unexpected schemes.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
