package session

import (
	"context"

	"github.com/shortdrama-cli/shortdrama/account"
)

// Login authenticates, fetches the account and persists the resulting session.
func Login(ctx context.Context, client *account.Client, login, password string) (*Session, *account.User, error) {
	id, err := client.Login(ctx, login, password)
	if err != nil {
		return nil, nil, err
	}

	user, err := client.Info(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	s := &Session{UserID: id, Username: user.DisplayName()}
	if err := Save(s); err != nil {
		return nil, nil, err
	}

	return s, user, nil
}
