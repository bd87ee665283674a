// Package session persists the signed-in user in the system keyring and restores it on startup.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/zalando/go-keyring"
)

const user = "session"

// ErrNoSession is returned when nobody is signed in.
var ErrNoSession = errors.New("not logged in")

// Session is the persisted identity of the signed-in user.
type Session struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// Save persists s to the system keyring.
func Save(s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return keyring.Set(constant.App, user, string(data))
}

// Load returns the persisted session or ErrNoSession.
func Load() (*Session, error) {
	data, err := keyring.Get(constant.App, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("keyring: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil || s.UserID == 0 {
		_ = Clear()
		return nil, ErrNoSession
	}

	return &s, nil
}

// Clear removes the persisted session. Clearing an empty keyring is not an error.
func Clear() error {
	err := keyring.Delete(constant.App, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
