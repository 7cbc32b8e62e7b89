package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// t.Setenv registers restoration; Unsetenv then clears the variable for
	// the duration of the test.
	for _, key := range []string{"CHIRP_API_URL", "CHIRP_PAGE_SIZE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL)
	assert.Equal(t, 20, cfg.PageSize)
	assert.NotEmpty(t, cfg.TokenFile)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("CHIRP_API_URL", "https://chirp.example.com/api")
	t.Setenv("CHIRP_EMAIL", "ada@example.com")
	t.Setenv("CHIRP_PAGE_SIZE", "50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://chirp.example.com/api", cfg.APIURL)
	assert.Equal(t, "ada@example.com", cfg.Email)
	assert.Equal(t, 50, cfg.PageSize)
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := Config{TokenFile: filepath.Join(t.TempDir(), "nested", "token")}

	assert.Empty(t, cfg.SavedToken())
	require.NoError(t, cfg.SaveToken("t-123"))
	assert.Equal(t, "t-123", cfg.SavedToken())

	info, err := os.Stat(cfg.TokenFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEmptyTokenFileIsInert(t *testing.T) {
	cfg := Config{}
	assert.Empty(t, cfg.SavedToken())
	assert.NoError(t, cfg.SaveToken("anything"))
}
