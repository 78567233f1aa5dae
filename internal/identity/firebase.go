// Package identity verifies third-party identity tokens before they reach the account service.
package identity

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	apperrors "signup/internal/errors"
)

// ProviderGoogle is the provider name for identities proven by a Google-backed ID token.
const ProviderGoogle = "google"

// Profile is the trusted identity extracted from a verified token.
type Profile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// Verifier validates an ID token issued by the identity provider.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Profile, error)
}

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier checks Firebase Authentication ID tokens (Google sign-in).
type FirebaseVerifier struct {
	client idTokenVerifier
}

var _ Verifier = (*FirebaseVerifier)(nil)

// NewFirebaseVerifier initializes a Firebase app. With an empty credentials file the
// application default credentials are used; projectID may be empty when the
// credentials carry one.
func NewFirebaseVerifier(ctx context.Context, credentialsFile, projectID string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

// Verify validates idToken and returns the identity it proves.
// Tokens without an email are rejected since email is the account join key.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Profile, error) {
	tok, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		if auth.IsCertificateFetchFailed(err) {
			return nil, fmt.Errorf("verify id token: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidIdentityToken, err)
	}

	email := strings.TrimSpace(claimString(tok.Claims, "email"))
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email", apperrors.ErrInvalidIdentityToken)
	}

	return &Profile{
		Subject: tok.UID,
		Email:   email,
		Name:    claimString(tok.Claims, "name"),
		Picture: claimString(tok.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}

// Disabled is the Verifier used when no identity provider is configured.
type Disabled struct{}

// Verify always fails with ErrIdentityProviderDisabled.
func (Disabled) Verify(context.Context, string) (*Profile, error) {
	return nil, apperrors.ErrIdentityProviderDisabled
}
