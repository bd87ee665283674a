package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/shortdrama-cli/shortdrama/log"
)

// EventCallback receives observed property changes by property name and every
// other mpv event by event name, with the whole event object as data.
type EventCallback func(name string, data any)

// EventListener keeps a dedicated IPC connection open and forwards mpv events.
type EventListener struct {
	socketPath string
	properties []string
	conn       net.Conn
	callback   EventCallback
	stopCh     chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener returns a listener that observes properties on socketPath.
func NewEventListener(socketPath string, properties []string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		properties: properties,
		callback:   callback,
		stopCh:     make(chan struct{}),
	}
}

// Start subscribes to the properties and launches the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	// Observers are bound to the connection that registered them.
	for i, name := range el.properties {
		payload, err := json.Marshal(ipcRequest{Command: []any{"observe_property", i + 1, name}, RequestID: requestIDs.Add(1)})
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true

	go el.readLoop(conn)

	log.Infof("mpv event listener started on %s (observing: %s)", el.socketPath, strings.Join(el.properties, ", "))
	return nil
}

// Stop closes the listener connection.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	if el.conn != nil {
		_ = el.conn.Close()
	}
	el.listening = false
}

func (el *EventListener) readLoop(conn net.Conn) {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	reader := bufio.NewReader(conn)
	var pending []byte

	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		chunk, err := reader.ReadBytes('\n')
		pending = append(pending, chunk...)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			select {
			case <-el.stopCh:
			default:
				log.Warnf("event listener read error: %v", err)
			}
			return
		}

		line := strings.TrimSpace(string(pending))
		pending = pending[:0]
		if line != "" {
			el.processEvent(line)
		}
	}
}

// processEvent parses one newline-delimited JSON message from mpv.
func (el *EventListener) processEvent(line string) {
	var event map[string]any
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		return
	}

	eventType, ok := event["event"].(string)
	if !ok || el.callback == nil {
		return
	}

	if eventType == "property-change" {
		if name, _ := event["name"].(string); name != "" {
			el.callback(name, event["data"])
		}
		return
	}

	el.callback(eventType, event)
}
