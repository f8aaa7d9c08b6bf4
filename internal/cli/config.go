package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/phonebook/internal/paths"
	"github.com/mesh-intelligence/phonebook/internal/sqlite"
	"github.com/mesh-intelligence/phonebook/internal/web"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend = "backend"
	cfgKeyDataDir = "data_dir"
	cfgKeyWebAddr = "web.addr"

	envPrefix = "PHONEBOOK"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend string        `yaml:"backend"`
	DataDir string        `yaml:"data_dir,omitempty"`
	Web     webConfigFile `yaml:"web"`
}

type webConfigFile struct {
	Addr string `yaml:"addr"`
}

// settings is the resolved configuration for one command run.
type settings struct {
	configDir string
	backend   types.Config
	webAddr   string
}

// loadSettings resolves the config directory, reads config.yaml through
// viper (a missing file is not an error), applies PHONEBOOK_* environment
// overrides and resolves the data directory.
func loadSettings(f *rootFlags) (*settings, error) {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return nil, sysError("resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyWebAddr, web.DefaultAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, userError("read config: %w", err)
		}
	}

	// PHONEBOOK_DATA_DIR is handled by paths so the flag still wins over it.
	dataDir, err := paths.ResolveDataDir(f.dataDir, configValue(v, cfgKeyDataDir))
	if err != nil {
		return nil, sysError("resolve data dir: %w", err)
	}

	return &settings{
		configDir: configDir,
		backend: types.Config{
			Backend: v.GetString(cfgKeyBackend),
			DataDir: dataDir,
		},
		webAddr: v.GetString(cfgKeyWebAddr),
	}, nil
}

// configValue returns key as written in config.yaml, ignoring environment
// overrides.
func configValue(v *viper.Viper, key string) string {
	if !v.InConfig(key) {
		return ""
	}
	s, _ := v.Get(key).(string)
	return s
}

// openBackend loads settings and attaches a SQLite backend. The caller must
// Detach it.
func openBackend(f *rootFlags) (*sqlite.Backend, *settings, error) {
	s, err := loadSettings(f)
	if err != nil {
		return nil, nil, err
	}
	if err := s.backend.Validate(); err != nil {
		return nil, nil, userError("config: %w", err)
	}
	backend := sqlite.NewBackend()
	if err := backend.Attach(s.backend); err != nil {
		return nil, nil, sysError("attach backend: %w", err)
	}
	return backend, s, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. Returns true when a file was written.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
		Web:     webConfigFile{Addr: web.DefaultAddr},
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	return true, os.WriteFile(path, data, 0o644)
}
