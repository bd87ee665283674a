// Package analytics appends product events to a local JSON Lines journal.
package analytics

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/filesystem"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/shortdrama-cli/shortdrama/where"
	"github.com/spf13/viper"
)

// Event types.
const (
	TypeLogin              = "login"
	TypeLogout             = "logout"
	TypeContentConsumption = "content_consumption"
	TypeUserInteraction    = "user_interaction"
)

// Schemas identify the payload layout of each event type.
var schemas = map[string]string{
	TypeLogin:              "iglu:com.dgp/dv_login/jsonschema/1-0-2",
	TypeLogout:             "iglu:com.dgp/dv_login/jsonschema/1-0-2",
	TypeContentConsumption: "iglu:com.dgp/dv_content_consumption/jsonschema/1-0-0",
	TypeUserInteraction:    "iglu:com.dgp/dv_user_interaction/jsonschema/1-0-0",
}

// Event is one journal line.
type Event struct {
	ID     uuid.UUID      `json:"id"`
	Time   time.Time      `json:"time"`
	Type   string         `json:"type"`
	Schema string         `json:"schema"`
	Data   map[string]any `json:"data,omitempty"`
}

// Journal writes events to a file. A disabled journal drops everything.
type Journal struct {
	path    string
	enabled bool
	now     func() time.Time
	mu      sync.Mutex
}

// New returns a journal writing to path.
func New(path string, enabled bool) *Journal {
	return &Journal{path: path, enabled: enabled, now: time.Now}
}

// Default returns the journal in the cache directory, enabled per config.
func Default() *Journal {
	return New(where.Events(), viper.GetBool(key.AnalyticsEnable))
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "ko"
}

// Login records a login attempt.
func (j *Journal) Login(method string, ok bool) {
	j.track(TypeLogin, map[string]any{"type_of_action": TypeLogin, "method": method, "status": status(ok)})
}

// Logout records a logout.
func (j *Journal) Logout(method string) {
	j.track(TypeLogout, map[string]any{"type_of_action": TypeLogout, "method": method, "status": status(true)})
}

// ContentConsumption records the first playback of v.
func (j *Journal) ContentConsumption(v *catalog.Video) {
	j.track(TypeContentConsumption, map[string]any{"content_id": v.ID, "collection": v.CollectionTitle})
}

// UserInteraction records a UI action such as save or share.
func (j *Journal) UserInteraction(action string) {
	j.track(TypeUserInteraction, map[string]any{"action": action})
}

func (j *Journal) track(kind string, data map[string]any) {
	if j == nil || !j.enabled {
		return
	}

	if err := j.Append(Event{
		ID:     uuid.New(),
		Time:   j.now().UTC(),
		Type:   kind,
		Schema: schemas[kind],
		Data:   data,
	}); err != nil {
		log.Warnf("analytics: %v", err)
	}
}

// Append writes e as a single line.
func (j *Journal) Append(e Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	line, err := json.Marshal(e)
	if err != nil {
		return err
	}

	fs := filesystem.API()
	if err := fs.MkdirAll(filepath.Dir(j.path), os.ModePerm); err != nil {
		return err
	}

	file, err := fs.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(append(line, '\n'))
	return err
}

// Read returns every event in the journal. Malformed lines are skipped.
func (j *Journal) Read() ([]Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := filesystem.API().Open(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		events = append(events, e)
	}

	return events, scanner.Err()
}
