package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const installedSecrets = `{"installed":{"client_id":"id.apps.googleusercontent.com","client_secret":"shh","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`

func TestGetConfigPinsRedirectPort(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ClientSecretsFile), []byte(installedSecrets), 0600))

	cfg, err := GetConfig(dir, CalendarScopes, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:"+LocalhostAuthPort, cfg.RedirectURL)
	assert.Equal(t, CalendarScopes, cfg.Scopes)
}

func TestGetConfigMissingSecrets(t *testing.T) {
	_, err := GetConfig(t.TempDir(), CalendarScopes, zap.NewNop())
	assert.Error(t, err)
}

func TestTokenCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, TokenFile)
	tok := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", Expiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, saveToken(path, tok))
	got, err := tokenFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccessToken)
	assert.Equal(t, "r", got.RefreshToken)
	assert.True(t, tok.Expiry.Equal(got.Expiry))

	require.NoError(t, RemoveToken(dir))
	require.NoError(t, RemoveToken(dir))
	_, err = tokenFromFile(path)
	assert.Error(t, err)
}
