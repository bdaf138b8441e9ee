package clientcli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YamesYamerson/secure-multimedia-storage/clientcli"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("token set", func(t *testing.T) {
		cfg := &clientcli.Config{Endpoint: "http://localhost:8080", Token: "tok"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing token", func(t *testing.T) {
		cfg := &clientcli.Config{Endpoint: "http://localhost:8080"}
		assert.ErrorIs(t, cfg.Validate(), clientcli.ErrTokenRequired)
	})
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := &clientcli.Config{Token: "tok"}
	withDefaults := cfg.WithDefaults()

	assert.Equal(t, clientcli.DefaultEndpoint, withDefaults.Endpoint)
	assert.Equal(t, "tok", withDefaults.Token)
	assert.Empty(t, cfg.Endpoint, "original config must not be mutated")
}

func TestConfigFile_Profiles(t *testing.T) {
	cf := &clientcli.ConfigFile{}

	_, err := cf.GetProfile("")
	require.ErrorIs(t, err, clientcli.ErrNoProfiles)

	require.NoError(t, cf.AddProfile(clientcli.Profile{Name: "local", Endpoint: "http://localhost:8080"}))
	require.NoError(t, cf.AddProfile(clientcli.Profile{Name: "prod", Endpoint: "https://media.example.com", Token: "prod-token"}))

	err = cf.AddProfile(clientcli.Profile{Name: "local"})
	require.ErrorIs(t, err, clientcli.ErrProfileExists)

	p, err := cf.GetProfile("")
	require.NoError(t, err)
	assert.Equal(t, "local", p.Name, "first profile is the default when none is marked")

	require.NoError(t, cf.SetDefault("prod"))
	p, err = cf.GetDefaultProfile()
	require.NoError(t, err)
	assert.Equal(t, "prod", p.Name)

	require.NoError(t, cf.UpdateProfile(clientcli.Profile{Name: "prod", Endpoint: "https://media2.example.com", Default: true}))
	p, err = cf.GetProfile("prod")
	require.NoError(t, err)
	assert.Equal(t, "https://media2.example.com", p.Endpoint)

	require.ErrorIs(t, cf.UpdateProfile(clientcli.Profile{Name: "missing"}), clientcli.ErrProfileNotFound)
	require.ErrorIs(t, cf.SetDefault("missing"), clientcli.ErrProfileNotFound)

	require.NoError(t, cf.RemoveProfile("local"))
	assert.Equal(t, []string{"prod"}, cf.ProfileNames())
	require.ErrorIs(t, cf.RemoveProfile("local"), clientcli.ErrProfileNotFound)
}

func TestConfigFile_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cf := &clientcli.ConfigFile{Profiles: []clientcli.Profile{
		{Name: "local", Endpoint: "http://localhost:8080", Token: "secret-token", Default: true},
	}}
	require.NoError(t, cf.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := clientcli.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cf.Profiles, loaded.Profiles)
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("yaml profiles", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `profiles:
  - name: local
    endpoint: http://localhost:8080
    token: abc
    default: true
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cf, err := clientcli.LoadConfigFile(path)
		require.NoError(t, err)
		require.Len(t, cf.Profiles, 1)

		cfg := clientcli.ConfigFromProfile(&cf.Profiles[0])
		assert.Equal(t, "http://localhost:8080", cfg.Endpoint)
		assert.Equal(t, "abc", cfg.Token)
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := clientcli.LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`profiles: [yaml: content`), 0o600))

		_, err := clientcli.LoadConfigFile(path)
		assert.Error(t, err)
	})
}

func TestMergeConfig(t *testing.T) {
	tests := []struct {
		name     string
		configs  []*clientcli.Config
		expected *clientcli.Config
	}{
		{
			name:     "empty configs",
			configs:  []*clientcli.Config{},
			expected: &clientcli.Config{},
		},
		{
			name:     "nil entries skipped",
			configs:  []*clientcli.Config{nil, {Endpoint: "http://a"}, nil},
			expected: &clientcli.Config{Endpoint: "http://a"},
		},
		{
			name: "later overrides earlier",
			configs: []*clientcli.Config{
				{Endpoint: "http://a", Token: "t1"},
				{Endpoint: "http://b", Token: "t2"},
			},
			expected: &clientcli.Config{Endpoint: "http://b", Token: "t2"},
		},
		{
			name: "empty values do not override",
			configs: []*clientcli.Config{
				{Endpoint: "http://a", Token: "t1"},
				{Token: "t2"},
			},
			expected: &clientcli.Config{Endpoint: "http://a", Token: "t2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clientcli.MergeConfig(tt.configs...))
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("MEDIASTORE_ENDPOINT", "http://env:8080")
	t.Setenv("MEDIASTORE_TOKEN", "env-token")
	t.Setenv("MEDIASTORE_PROFILE", "staging")
	t.Setenv("MEDIASTORE_CLI_CONFIG", "/tmp/cli.yaml")

	cfg := clientcli.ConfigFromEnv()
	assert.Equal(t, "http://env:8080", cfg.Endpoint)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "staging", clientcli.ProfileFromEnv())
	assert.Equal(t, "/tmp/cli.yaml", clientcli.ConfigPathFromEnv())
}
