package monarch

import (
	"context"

	"github.com/eshaffer321/monarch-mcp/internal/auth"
)

type authService struct {
	client  *Client
	service *auth.Service
}

func newAuthService(client *Client) *authService {
	return &authService{
		client:  client,
		service: auth.NewService(client.baseURL, client.httpClient, client.options.Logger),
	}
}

// Login performs a password login
func (a *authService) Login(ctx context.Context, email, password string) error {
	return a.login(ctx, auth.Credentials{Email: email, Password: password})
}

// LoginWithMFA performs a login with a one-time MFA code
func (a *authService) LoginWithMFA(ctx context.Context, email, password, mfaCode string) error {
	return a.login(ctx, auth.Credentials{Email: email, Password: password, MFACode: mfaCode})
}

// LoginWithTOTP performs a login, deriving the MFA code from a TOTP secret
func (a *authService) LoginWithTOTP(ctx context.Context, email, password, totpSecret string) error {
	return a.login(ctx, auth.Credentials{Email: email, Password: password, TOTPSecret: totpSecret})
}

func (a *authService) login(ctx context.Context, creds auth.Credentials) error {
	session, err := a.service.Login(ctx, creds)
	if err != nil {
		return err
	}
	a.client.transport.SetSession(session)
	return nil
}
