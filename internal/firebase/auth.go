package firebase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"campustrace-backend-go/internal/core"
)

// AuthAdmin adapts *auth.Client to core.AuthAdmin.
type AuthAdmin struct {
	client *auth.Client
}

// NewAuthAdmin returns nil when client is nil so services see auth as unavailable.
func NewAuthAdmin(client *auth.Client) core.AuthAdmin {
	if client == nil {
		return nil
	}
	return &AuthAdmin{client: client}
}

func (a *AuthAdmin) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}

	record, err := a.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", core.ErrEmailTaken
		}
		return "", fmt.Errorf("auth.CreateUser: %w", err)
	}
	return record.UID, nil
}

func (a *AuthAdmin) RevokeRefreshTokens(ctx context.Context, uid string) error {
	return a.client.RevokeRefreshTokens(ctx, uid)
}
