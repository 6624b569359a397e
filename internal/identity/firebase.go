package identity

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"semaphore/booking/internal/model"
)

// FirebaseProvider backs student sessions with Firebase Auth session cookies.
// A bearer credential may also be a plain Firebase ID token.
type FirebaseProvider struct {
	client *auth.Client
}

var _ Provider = (*FirebaseProvider)(nil)

func NewFirebaseProvider(ctx context.Context, projectID, credentialsFile string) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &FirebaseProvider{client: client}, nil
}

func (p *FirebaseProvider) CreateSession(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	if idToken == "" {
		return "", ErrNoUser
	}
	cookie, err := p.client.SessionCookie(ctx, idToken, ttl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoUser, err)
	}
	return cookie, nil
}

func (p *FirebaseProvider) CurrentUser(ctx context.Context, session string) (*model.User, error) {
	if session == "" {
		return nil, ErrNoUser
	}
	token, err := verifyAny(ctx, session, p.client.VerifySessionCookieAndCheckRevoked, p.client.VerifyIDTokenAndCheckRevoked)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoUser, err)
	}
	email, _ := token.Claims["email"].(string)
	return &model.User{UID: token.UID, Email: email}, nil
}

func (p *FirebaseProvider) SignOut(ctx context.Context, session string) error {
	if session == "" {
		return nil
	}
	token, err := verifyAny(ctx, session, p.client.VerifySessionCookie, p.client.VerifyIDToken)
	if err != nil {
		return nil
	}
	return p.client.RevokeRefreshTokens(ctx, token.UID)
}

type tokenVerifier func(ctx context.Context, value string) (*auth.Token, error)

// verifyAny returns the first verifier's token that accepts value. On total
// failure the first verifier's error is reported.
func verifyAny(ctx context.Context, value string, verifiers ...tokenVerifier) (*auth.Token, error) {
	var first error
	for _, verify := range verifiers {
		token, err := verify(ctx, value)
		if err == nil {
			return token, nil
		}
		if first == nil {
			first = err
		}
	}
	if first == nil {
		first = ErrNoUser
	}
	return nil, first
}
