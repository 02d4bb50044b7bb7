// Package auth handles device-code sign-in and OAuth2 token persistence.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/dustin/go-humanize"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// ErrTokenNotSet indicates no OAuth token is available.
var ErrTokenNotSet = errors.New("no token defined")

const offlineAccessScope = "offline_access"

// DevicePrompt tells the user where to enter the device code.
type DevicePrompt func(ctx context.Context, resp *oauth2.DeviceAuthResponse) error

// WriterPrompt returns a DevicePrompt printing the sign-in instructions to w.
func WriterPrompt(w io.Writer) DevicePrompt {
	return func(_ context.Context, resp *oauth2.DeviceAuthResponse) error {
		_, err := fmt.Fprintf(w,
			"To sign in, use a web browser to open the page %s and enter the code %s to authenticate.\n",
			resp.VerificationURI, resp.UserCode)
		return err
	}
}

// OAuthConfig returns the device-code configuration for an Entra ID public
// client. offline_access is added so that a refresh token is issued.
func OAuthConfig(clientID, tenantID string, scopes []string) *oauth2.Config {
	scopes = slices.Clone(scopes)
	if !slices.Contains(scopes, offlineAccessScope) {
		scopes = append(scopes, offlineAccessScope)
	}

	return &oauth2.Config{
		ClientID: clientID,
		Endpoint: microsoft.AzureADEndpoint(tenantID),
		Scopes:   scopes,
	}
}

// Token manages a persisted OAuth2 token and implements
// azcore.TokenCredential for the Graph SDK.
type Token struct {
	mu     sync.Mutex
	cfg    *oauth2.Config
	token  *oauth2.Token
	store  Store
	prompt DevicePrompt
	log    *slog.Logger
}

// NewToken creates a Token manager, loading a saved token from store.
func NewToken(cfg *oauth2.Config, store Store, prompt DevicePrompt, logger *slog.Logger) (*Token, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	t := &Token{
		cfg:    cfg,
		store:  store,
		prompt: prompt,
		log:    logger.With("component", "auth"),
	}

	token, err := store.Load()
	if errors.Is(err, ErrTokenNotSet) {
		t.log.Info("no saved token, device sign-in will run on first use")
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store.Load failed: %w", err)
	}
	t.token = token

	return t, nil
}

// Authorize runs the device authorization grant and saves the new token.
func (t *Token) Authorize(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.authorize(ctx)
}

func (t *Token) authorize(ctx context.Context) error {
	resp, err := t.cfg.DeviceAuth(ctx)
	if err != nil {
		return fmt.Errorf("cfg.DeviceAuth failed: %w", err)
	}

	if err := t.prompt(ctx, resp); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	tok, err := t.cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return fmt.Errorf("cfg.DeviceAccessToken failed: %w", err)
	}

	t.token = tok
	t.log.Info("signed in", "token", maskLeft(tok.AccessToken), "expires", humanize.Time(tok.Expiry))

	if err := t.persist(); err != nil {
		t.log.Warn("saving token failed", "error", err)
	}

	return nil
}

// OAuthToken returns the current OAuth2 token.
func (t *Token) OAuthToken() (*oauth2.Token, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token == nil {
		return nil, ErrTokenNotSet
	}

	return t.token, nil
}

// GetToken returns a valid access token, signing in on first use and
// refreshing an expired one. A rejected refresh falls back to a new sign-in.
func (t *Token) GetToken(ctx context.Context, _ policy.TokenRequestOptions) (azcore.AccessToken, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token == nil {
		if err := t.authorize(ctx); err != nil {
			return azcore.AccessToken{}, err
		}
	}

	tok, err := t.cfg.TokenSource(ctx, t.token).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if !errors.As(err, &retrieveErr) {
			return azcore.AccessToken{}, fmt.Errorf("tokenSource.Token failed: %w", err)
		}

		t.log.Warn("token refresh rejected, signing in again", "error", err)
		if err := t.authorize(ctx); err != nil {
			return azcore.AccessToken{}, err
		}
		tok = t.token
	}

	if tok.AccessToken != t.token.AccessToken {
		t.token = tok
		t.log.Debug("token refreshed", "token", maskLeft(tok.AccessToken), "expires", humanize.Time(tok.Expiry))
		if err := t.persist(); err != nil {
			t.log.Warn("saving refreshed token failed", "error", err)
		}
	}

	return azcore.AccessToken{Token: tok.AccessToken, ExpiresOn: tok.Expiry}, nil
}

// Persist saves the current token, if any.
func (t *Token) Persist() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.persist()
}

func (t *Token) persist() error {
	if t.token == nil {
		return nil
	}

	if err := t.store.Save(t.token); err != nil {
		return fmt.Errorf("store.Save failed: %w", err)
	}

	return nil
}

func maskLeft(s string) string {
	rs := []rune(s)
	for i := 0; i < len(rs)-4; i++ {
		rs[i] = 'X'
	}
	return string(rs)
}

var _ azcore.TokenCredential = (*Token)(nil)
