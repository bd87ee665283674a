// Package account is a client for the user authentication and account-info API.
package account

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/shortdrama-cli/shortdrama/network"
	"github.com/shortdrama-cli/shortdrama/util"
	"github.com/spf13/viper"
)

const (
	saltPrefix = "f5c028c81f"
	saltSuffix = "560e6cd05c8513b96062b0"

	pathLogin = "/login/dve"
	pathInfo  = "/accountinfo/all"
)

// ErrInvalidCredentials is returned when the API rejects the login identifier or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// APIError is an application-level failure reported by the account API.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Sprintf("account api error: %s (code %d)", msg, e.Code)
}

// ErrorCode implements network.Coded.
func (e *APIError) ErrorCode() int {
	return e.Code
}

// User is the account record returned by the account-info endpoint.
type User struct {
	ID         string `json:"user_id"`
	Email      string `json:"email"`
	MSISDN     string `json:"msisdn"`
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	Subscribed bool   `json:"subscribed"`
	Country    string `json:"country"`
}

// DisplayName picks the first non-empty of first name, phone number and email.
func (u *User) DisplayName() string {
	for _, candidate := range []string{u.FirstName, u.MSISDN, u.Email} {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			return candidate
		}
	}
	return ""
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HashPassword derives the salted digest the login endpoint expects.
func HashPassword(password string) string {
	sum := sha1.Sum([]byte(saltPrefix + password + saltSuffix))
	return hex.EncodeToString(sum[:])
}

// Client talks to the account API.
type Client struct {
	BaseURL   string
	ServiceID string
	Timeout   time.Duration
	HTTP      *http.Client
}

// Default returns a client configured from viper.
func Default() *Client {
	return &Client{
		BaseURL:   viper.GetString(key.AccountBaseURL),
		ServiceID: viper.GetString(key.AccountServiceID),
		Timeout:   time.Duration(viper.GetInt(key.CatalogTimeout)) * time.Second,
		HTTP:      network.Client,
	}
}

type loginResponse struct {
	Code  int `json:"code"`
	Error int `json:"error"`
	Data  struct {
		UserID json.RawMessage `json:"user_id"`
	} `json:"data"`
}

type infoResponse struct {
	Code    int     `json:"code"`
	Error   int     `json:"error"`
	Message string  `json:"message"`
	Data    []*User `json:"data"`
}

// Login exchanges an email or phone number and a password for a user id.
func (c *Client) Login(ctx context.Context, login, password string) (int, error) {
	params := url.Values{}
	params.Set("service_id", c.ServiceID)
	params.Set("login", login)
	params.Set("password_dve", HashPassword(password))

	var resp loginResponse
	if err := c.get(ctx, pathLogin, params, &resp); err != nil {
		return 0, err
	}

	if resp.Error != 0 {
		return 0, fmt.Errorf("login: %w", &APIError{Code: resp.Code, Message: "authentication failed"})
	}

	raw := bytes.TrimSpace(resp.Data.UserID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("false")) || bytes.Equal(raw, []byte("null")) {
		return 0, ErrInvalidCredentials
	}

	id, err := strconv.Atoi(strings.Trim(string(raw), `"`))
	if err != nil {
		return 0, fmt.Errorf("login: unexpected user id %s: %w", raw, err)
	}

	log.Infof("logged in as user %d", id)
	return id, nil
}

// Info fetches the account details of a user.
func (c *Client) Info(ctx context.Context, userID int) (*User, error) {
	params := url.Values{}
	params.Set("service_id", c.ServiceID)
	params.Set("user_id", strconv.Itoa(userID))

	var resp infoResponse
	if err := c.get(ctx, pathInfo, params, &resp); err != nil {
		return nil, err
	}

	if resp.Error != 0 || len(resp.Data) == 0 {
		msg := resp.Message
		if msg == "" {
			msg = "failed to retrieve user information"
		}
		return nil, fmt.Errorf("account info: %w", &APIError{Code: resp.Code, Message: msg})
	}

	return resp.Data[0], nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, target any) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	client := c.HTTP
	if client == nil {
		client = network.Client
	}

	endpoint := strings.TrimSuffix(c.BaseURL, "/") + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Error(err)
		return fmt.Errorf("account %s: %w", path, network.Classify(err))
	}
	defer util.Ignore(resp.Body.Close)

	if err := network.CheckStatus(resp); err != nil {
		return fmt.Errorf("account %s: %w", path, err)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("account %s: %w", path, network.Classify(ctx.Err()))
		}
		return fmt.Errorf("account %s: decode: %w", path, err)
	}

	return nil
}
