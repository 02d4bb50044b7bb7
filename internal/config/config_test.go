package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/graph-mail/internal/auth"
	"github.com/hal9000y/graph-mail/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "config.yaml", `
azure:
  clientId: client-1
  tenantId: tenant-1
  graphUserScopes: "User.Read  Mail.Read"
`)

	cfg, err := config.Load(config.Sources{Files: []string{base, filepath.Join(dir, "config.dev.yaml")}})
	require.NoError(t, err)

	assert.Equal(t, "client-1", cfg.ClientID)
	assert.Equal(t, "tenant-1", cfg.TenantID)
	assert.Equal(t, []string{"User.Read", "Mail.Read"}, cfg.GraphUserScopes)
	assert.Equal(t, "msgfolderroot", cfg.ParentFolderID)
	assert.Equal(t, auth.StoreNone, cfg.TokenStore)

	s := cfg.AuthSettings()
	assert.Equal(t, "client-1", s.ClientID)
	assert.Equal(t, []string{"User.Read", "Mail.Read"}, s.Scopes)
}

func TestLoadOverrideAndEnv(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "config.yaml", `
azure:
  clientId: client-1
  tenantId: tenant-1
  graphUserScopes: User.Read
`)
	override := writeFile(t, dir, "config.dev.yaml", `
azure:
  tenantId: tenant-dev
  parentFolderId: AAMkAGI2
  tokenStore: File
  tokenFile: /tmp/token.json
`)

	t.Setenv("GRAPH_MAIL_AZURE_CLIENTID", "client-env")

	cfg, err := config.Load(config.Sources{Files: []string{base, override}})
	require.NoError(t, err)

	assert.Equal(t, "client-env", cfg.ClientID)
	assert.Equal(t, "tenant-dev", cfg.TenantID)
	assert.Equal(t, []string{"User.Read"}, cfg.GraphUserScopes)
	assert.Equal(t, "AAMkAGI2", cfg.ParentFolderID)
	assert.Equal(t, auth.StoreFile, cfg.TokenStore)
	assert.Equal(t, "/tmp/token.json", cfg.TokenFile)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", `
GRAPH_MAIL_AZURE_CLIENTID=client-dotenv
GRAPH_MAIL_AZURE_TENANTID=tenant-dotenv
GRAPH_MAIL_AZURE_GRAPHUSERSCOPES="User.Read Mail.Read"
`)

	for _, k := range []string{"GRAPH_MAIL_AZURE_CLIENTID", "GRAPH_MAIL_AZURE_TENANTID", "GRAPH_MAIL_AZURE_GRAPHUSERSCOPES"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := config.Load(config.Sources{EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "client-dotenv", cfg.ClientID)
	assert.Equal(t, "tenant-dotenv", cfg.TenantID)
	assert.Equal(t, []string{"User.Read", "Mail.Read"}, cfg.GraphUserScopes)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing keys are all reported", func(t *testing.T) {
		dir := t.TempDir()
		base := writeFile(t, dir, "config.yaml", `
azure:
  tenantId: tenant-1
`)

		_, err := config.Load(config.Sources{Files: []string{base}})

		var cfgErr *config.Error
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, []string{"azure.clientId", "azure.graphUserScopes"}, cfgErr.Missing)
		assert.Contains(t, err.Error(), "missing required settings: azure.clientId, azure.graphUserScopes")
	})

	t.Run("no files at all", func(t *testing.T) {
		dir := t.TempDir()

		_, err := config.Load(config.Sources{Files: []string{filepath.Join(dir, "absent.yaml")}})

		var cfgErr *config.Error
		require.ErrorAs(t, err, &cfgErr)
		assert.Len(t, cfgErr.Missing, 3)
	})

	t.Run("unknown token store", func(t *testing.T) {
		dir := t.TempDir()
		base := writeFile(t, dir, "config.yaml", `
azure:
  clientId: client-1
  tenantId: tenant-1
  graphUserScopes: User.Read
  tokenStore: vault
`)

		_, err := config.Load(config.Sources{Files: []string{base}})

		var cfgErr *config.Error
		require.ErrorAs(t, err, &cfgErr)
		assert.Empty(t, cfgErr.Missing)
		assert.Equal(t, []string{`azure.tokenStore="vault"`}, cfgErr.Invalid)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		base := writeFile(t, dir, "config.yaml", "azure: [unterminated\n")

		_, err := config.Load(config.Sources{Files: []string{base}})
		require.Error(t, err)

		var cfgErr *config.Error
		assert.NotErrorAs(t, err, &cfgErr)
	})

	t.Run("missing env file", func(t *testing.T) {
		_, err := config.Load(config.Sources{EnvFile: filepath.Join(t.TempDir(), ".env")})
		assert.ErrorContains(t, err, "godotenv.Load failed")
	})
}
