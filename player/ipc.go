package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcReply is either the answer to a request or an unsolicited event line.
type ipcReply struct {
	RequestID int64  `json:"request_id"`
	Event     string `json:"event"`
	Data      any    `json:"data"`
	Error     string `json:"error"`
}

const (
	maxRetries  = 3
	retryDelay  = 100 * time.Millisecond
	ipcDeadline = time.Second
)

var requestIDs atomic.Int64

// sendCommand sends a JSON-IPC command, retrying transient failures.
func (m *MPV) sendCommand(command []any) (any, error) {
	m.ipcMu.Lock()
	defer m.ipcMu.Unlock()

	var lastErr error
	for attempt := range maxRetries {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := exchange(m.socketPath, command)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", maxRetries, lastErr)
}

// exchange sends one request on a fresh connection and waits for the reply carrying its id.
func exchange(socketPath string, command []any) (any, error) {
	conn, err := net.DialTimeout("unix", socketPath, ipcDeadline)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(ipcDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	id := requestIDs.Add(1)
	if err := json.NewEncoder(conn).Encode(ipcRequest{Command: command, RequestID: id}); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		var reply ipcReply
		if err := json.Unmarshal(line, &reply); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		if reply.Event != "" || reply.RequestID != id {
			continue
		}

		if reply.Error != "" && reply.Error != "success" {
			return nil, fmt.Errorf("mpv error: %s", reply.Error)
		}
		return reply.Data, nil
	}
}
