package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// Token store kinds.
const (
	StoreNone    = "none"
	StoreFile    = "file"
	StoreKeyring = "keyring"
)

// Settings select how the user signs in and where the token is kept.
type Settings struct {
	ClientID   string
	TenantID   string
	Scopes     []string
	TokenStore string
	TokenFile  string
}

// NewCredential returns a device-code credential writing its sign-in
// instructions to prompt. Without a token store the token only lives in
// memory; otherwise it is saved and reused across runs.
func NewCredential(s Settings, prompt io.Writer, logger *slog.Logger) (azcore.TokenCredential, error) {
	var store Store

	switch s.TokenStore {
	case "", StoreNone:
		cred, err := azidentity.NewDeviceCodeCredential(&azidentity.DeviceCodeCredentialOptions{
			ClientID: s.ClientID,
			TenantID: s.TenantID,
			UserPrompt: func(_ context.Context, msg azidentity.DeviceCodeMessage) error {
				_, err := fmt.Fprintln(prompt, msg.Message)
				return err
			},
		})
		if err != nil {
			return nil, fmt.Errorf("azidentity.NewDeviceCodeCredential failed: %w", err)
		}
		return cred, nil
	case StoreFile:
		store = NewFileStore(s.TokenFile)
	case StoreKeyring:
		ring, err := OpenKeyring()
		if err != nil {
			return nil, err
		}
		store = NewKeyringStore(ring, s.TenantID+"/"+s.ClientID)
	default:
		return nil, fmt.Errorf("unknown token store %q", s.TokenStore)
	}

	tok, err := NewToken(OAuthConfig(s.ClientID, s.TenantID, s.Scopes), store, WriterPrompt(prompt), logger)
	if err != nil {
		return nil, fmt.Errorf("NewToken failed: %w", err)
	}

	return tok, nil
}
