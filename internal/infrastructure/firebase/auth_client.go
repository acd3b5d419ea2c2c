package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// AuthClient wraps the Firebase identity provider. The core trusts the uid
// it returns as the caller's identity for every operation.
type AuthClient struct {
	client *auth.Client
}

func NewAuthClient(client *auth.Client) *AuthClient {
	return &AuthClient{
		client: client,
	}
}

func (f *AuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}

func (f *AuthClient) GetUserEmail(ctx context.Context, uid string) (string, error) {
	record, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return "", err
	}

	return record.Email, nil
}
