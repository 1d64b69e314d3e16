package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"short", "abc", "****"},
		{"exactly_10", "1234567890", "****"},
		{"long_key", "sk-admin-1234567890abcdef", "sk-a****cdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskSecret(tt.input))
		})
	}
}

func TestMaskConfig(t *testing.T) {
	cfg := &UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {
				Host:     "https://api.example.com/v1/organization",
				AdminKey: "sk-admin-1234567890abcdef",
			},
		},
	}

	masked := maskConfig(cfg)

	// Non-sensitive fields preserved.
	assert.Equal(t, "https://api.example.com/v1/organization", masked.Profiles["default"].Host)
	assert.Equal(t, "default", masked.CurrentProfile)

	// Sensitive fields masked.
	assert.NotEqual(t, cfg.Profiles["default"].AdminKey, masked.Profiles["default"].AdminKey)
	assert.Contains(t, masked.Profiles["default"].AdminKey, "****")

	// Original config not mutated.
	assert.Equal(t, "sk-admin-1234567890abcdef", cfg.Profiles["default"].AdminKey)
}

func TestMaskConfig_EmptyProfiles(t *testing.T) {
	cfg := &UserConfig{
		CurrentProfile: "default",
		Profiles:       map[string]Profile{},
	}

	masked := maskConfig(cfg)
	assert.Empty(t, masked.Profiles)
}

func TestConfigShow_MasksByDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {
				Host:     "https://api.example.com/v1/organization",
				AdminKey: "sk-admin-1234567890abcdef",
				Output:   "table",
			},
		},
	}))

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"config", "show"})
	restore := captureStdout(t)

	require.NoError(t, rootCmd.Execute())
	output := restore()

	assert.Contains(t, output, "current-profile: default")
	assert.Contains(t, output, "https://api.example.com/v1/organization")
	assert.Contains(t, output, "****")
	assert.False(t, strings.Contains(output, "sk-admin-1234567890abcdef"),
		"admin key should be masked by default")
}

func TestConfigShow_Reveal(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {AdminKey: "sk-admin-1234567890abcdef"},
		},
	}))

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"config", "show", "--reveal"})
	restore := captureStdout(t)

	require.NoError(t, rootCmd.Execute())
	output := restore()

	assert.Contains(t, output, "sk-admin-1234567890abcdef")
}

func TestConfigSetProfile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"config", "set-profile", "--name", "staging",
		"--host", "https://staging.example.com/v1/organization",
		"--admin-key", "sk-admin-staging"})
	restore := captureStdout(t)
	require.NoError(t, rootCmd.Execute())
	restore()

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com/v1/organization", cfg.Profiles["staging"].Host)
	assert.Equal(t, "sk-admin-staging", cfg.Profiles["staging"].AdminKey)
}

func TestConfigUseProfile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {},
			"prod":    {Host: "https://api.example.com/v1/organization"},
		},
	}))

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"config", "use-profile", "prod"})
	restore := captureStdout(t)
	require.NoError(t, rootCmd.Execute())
	restore()

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.CurrentProfile)
}

func TestConfigUseProfile_Unknown(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles:       map[string]Profile{"default": {}},
	}))

	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"config", "use-profile", "ghost"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `profile "ghost" not found`)
}
