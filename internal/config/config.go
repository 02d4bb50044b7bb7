// Package config loads the layered application settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hal9000y/graph-mail/internal/auth"
	"github.com/hal9000y/graph-mail/internal/mail"
)

// EnvPrefix prefixes environment overrides, e.g. GRAPH_MAIL_AZURE_CLIENTID.
const EnvPrefix = "GRAPH_MAIL"

const section = "azure"

// Keys inside the azure section.
const (
	KeyClientID        = "clientId"
	KeyTenantID        = "tenantId"
	KeyGraphUserScopes = "graphUserScopes"
	KeyParentFolderID  = "parentFolderId"
	KeyTokenStore      = "tokenStore"
	KeyTokenFile       = "tokenFile"
)

var requiredKeys = []string{KeyClientID, KeyTenantID, KeyGraphUserScopes}

// Error reports settings that are missing or invalid. It is fatal at
// startup.
type Error struct {
	Missing []string
	Invalid []string
}

func (e *Error) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required settings: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid settings: "+strings.Join(e.Invalid, ", "))
	}
	return "configuration error: " + strings.Join(parts, "; ")
}

// Azure holds the identity and mailbox settings.
type Azure struct {
	ClientID        string
	TenantID        string
	GraphUserScopes []string
	ParentFolderID  string
	TokenStore      string
	TokenFile       string
}

// AuthSettings converts the section to credential settings.
func (a Azure) AuthSettings() auth.Settings {
	return auth.Settings{
		ClientID:   a.ClientID,
		TenantID:   a.TenantID,
		Scopes:     a.GraphUserScopes,
		TokenStore: a.TokenStore,
		TokenFile:  a.TokenFile,
	}
}

// Sources lists where settings are read from. Files are YAML; each may be
// absent. Later files override earlier ones and environment variables
// override both.
type Sources struct {
	Files   []string
	EnvFile string
}

// DefaultSources returns the base file followed by the developer override.
func DefaultSources() Sources {
	return Sources{Files: []string{"config.yaml", "config.dev.yaml"}}
}

// Load reads the azure section from src.
func Load(src Sources) (*Azure, error) {
	if src.EnvFile != "" {
		if err := godotenv.Load(src.EnvFile); err != nil {
			return nil, fmt.Errorf("godotenv.Load failed: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(key(KeyParentFolderID), mail.RootFolderID)
	v.SetDefault(key(KeyTokenStore), auth.StoreNone)
	v.SetDefault(key(KeyTokenFile), "graph-mail-token.json")

	for _, path := range src.Files {
		if err := merge(v, path); err != nil {
			return nil, err
		}
	}

	cfg := &Azure{
		ClientID:        strings.TrimSpace(v.GetString(key(KeyClientID))),
		TenantID:        strings.TrimSpace(v.GetString(key(KeyTenantID))),
		GraphUserScopes: strings.Fields(v.GetString(key(KeyGraphUserScopes))),
		ParentFolderID:  strings.TrimSpace(v.GetString(key(KeyParentFolderID))),
		TokenStore:      strings.ToLower(strings.TrimSpace(v.GetString(key(KeyTokenStore)))),
		TokenFile:       strings.TrimSpace(v.GetString(key(KeyTokenFile))),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func merge(v *viper.Viper, path string) error {
	v.SetConfigFile(path)

	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("reading config %s: %w", path, err)
	}

	return nil
}

func (a *Azure) validate() error {
	values := map[string]bool{
		KeyClientID:        a.ClientID != "",
		KeyTenantID:        a.TenantID != "",
		KeyGraphUserScopes: len(a.GraphUserScopes) > 0,
	}

	cfgErr := &Error{}
	for _, k := range requiredKeys {
		if !values[k] {
			cfgErr.Missing = append(cfgErr.Missing, section+"."+k)
		}
	}

	switch a.TokenStore {
	case auth.StoreNone, auth.StoreKeyring:
	case auth.StoreFile:
		if a.TokenFile == "" {
			cfgErr.Missing = append(cfgErr.Missing, section+"."+KeyTokenFile)
		}
	default:
		cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("%s.%s=%q", section, KeyTokenStore, a.TokenStore))
	}

	if a.ParentFolderID == "" {
		a.ParentFolderID = mail.RootFolderID
	}

	if len(cfgErr.Missing) > 0 || len(cfgErr.Invalid) > 0 {
		return cfgErr
	}

	return nil
}

func key(name string) string {
	return section + "." + name
}
