package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shortdrama-cli/shortdrama/account"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/shortdrama-cli/shortdrama/network"
	"github.com/spf13/viper"
)

var (
	// ErrExpired is returned when the API no longer recognizes the stored user.
	ErrExpired = errors.New("your session has expired, please log in again")

	// ErrNetworkUnavailable is returned when the session could not be verified for lack of connectivity.
	ErrNetworkUnavailable = errors.New("network is unavailable, please check your connection")
)

// Restorer verifies a persisted session against the account API.
type Restorer struct {
	// Info fetches account details for a user id.
	Info func(ctx context.Context, userID int) (*account.User, error)

	// Online probes connectivity. Retries only happen while it reports true.
	Online func(ctx context.Context) bool

	Attempts int
	Delay    time.Duration
}

// NewRestorer returns a Restorer backed by the account client and configured from viper.
func NewRestorer(client *account.Client) *Restorer {
	return &Restorer{
		Info: client.Info,
		Online: func(ctx context.Context) bool {
			host := hostOf(client.BaseURL)
			if host == "" {
				return false
			}
			ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return network.Online(ctx, host)
		},
		Attempts: viper.GetInt(key.SessionRestoreAttempts),
		Delay:    time.Duration(viper.GetInt(key.SessionRestoreDelay)) * time.Second,
	}
}

// Restore loads the stored session and confirms it is still valid.
// An application-level rejection clears the session and yields ErrExpired.
// Transport failures are retried every Delay while Online holds, at most Attempts times.
func (r *Restorer) Restore(ctx context.Context) (*Session, *account.User, error) {
	s, err := Load()
	if err != nil {
		return nil, nil, err
	}

	attempts := max(r.Attempts, 1)
	for attempt := 1; ; attempt++ {
		user, err := r.Info(ctx, s.UserID)
		if err == nil {
			if name := user.DisplayName(); name != "" && name != s.Username {
				s.Username = name
				if err := Save(s); err != nil {
					log.Warnf("updating stored username: %v", err)
				}
			}
			return s, user, nil
		}

		var apiErr *account.APIError
		if errors.As(err, &apiErr) {
			log.Warnf("session validation failed: %v", err)
			_ = Clear()
			return nil, nil, ErrExpired
		}

		if errors.Is(err, context.Canceled) {
			return nil, nil, err
		}

		if attempt >= attempts || r.Online == nil || !r.Online(ctx) {
			return nil, nil, fmt.Errorf("%w: %w", ErrNetworkUnavailable, err)
		}

		log.Infof("retrying session check in %s (attempt %d/%d)", r.Delay, attempt, attempts)
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(r.Delay):
		}
	}
}

func hostOf(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return ""
	}

	if u.Port() != "" {
		return u.Host
	}

	if u.Scheme == "http" {
		return u.Host + ":80"
	}
	return u.Host + ":443"
}
