// File: internal/config/manager.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const redactedValue = "********"

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindBool
)

type keySpec struct {
	kind   keyKind
	secret bool
}

// Every key the config file may hold, in dotted form
var knownKeys = map[string]keySpec{
	"driver":        {kind: kindString},
	"page_size":     {kind: kindInt},
	"cache_control": {kind: kindString},

	"gcp.bucket":         {kind: kindString},
	"gcp.project_id":     {kind: kindString},
	"gcp.client_email":   {kind: kindString},
	"gcp.private_key":    {kind: kindString, secret: true},
	"gcp.key_file":       {kind: kindString},
	"gcp.uniform_access": {kind: kindBool},

	"aws.bucket":            {kind: kindString},
	"aws.region":            {kind: kindString},
	"aws.endpoint":          {kind: kindString},
	"aws.access_key_id":     {kind: kindString},
	"aws.secret_access_key": {kind: kindString, secret: true},
	"aws.public_acl":        {kind: kindBool},
	"aws.force_path_style":  {kind: kindBool},

	"minio.bucket":      {kind: kindString},
	"minio.endpoint":    {kind: kindString},
	"minio.access_key":  {kind: kindString},
	"minio.secret_key":  {kind: kindString, secret: true},
	"minio.use_ssl":     {kind: kindBool},
	"minio.region":      {kind: kindString},
	"minio.public_base": {kind: kindString},
	"minio.public_read": {kind: kindBool},

	"disk.storage_root": {kind: kindString},
	"disk.read_url":     {kind: kindString},
}

// ConfigManager reads the layered configuration (file, then HUBSTORE_* environment)
// and persists changes made through the config subcommands back to the file only.
type ConfigManager struct {
	v    *viper.Viper
	path string
}

// Creates a manager for the config file at path, or the default location when path is empty
func NewConfigManager(path string) (*ConfigManager, error) {
	if path == "" {
		defaultPath, err := defaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	v := newFileViper(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key := range knownKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment for %s: %w", key, err)
		}
	}

	if err := readIfPresent(v); err != nil {
		return nil, err
	}

	return &ConfigManager{v: v, path: path}, nil
}

func defaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", ConfigDirName)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("error creating config directory: %w", err)
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

func newFileViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	return v
}

// A missing config file is not an error: the environment may carry everything
func readIfPresent(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error reading config file: %w", err)
}

func (m *ConfigManager) Path() string {
	return m.path
}

// Decodes the merged settings into a Config with defaults applied. Validation is
// left to the driver factory, which knows which backend block is actually needed.
func (m *ConfigManager) LoadConfig() (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := m.v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

func (m *ConfigManager) SetValue(key, value string) error {
	key = strings.ToLower(key)
	spec, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s. Known keys: %s", key, strings.Join(KnownKeys(), ", "))
	}

	typed, err := parseValue(spec.kind, value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	fv := newFileViper(m.path)
	if err := readIfPresent(fv); err != nil {
		return err
	}
	fv.Set(key, typed)
	if err := fv.WriteConfigAs(m.path); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	m.v.Set(key, typed)
	return nil
}

func (m *ConfigManager) GetValue(key string) (string, bool) {
	key = strings.ToLower(key)
	if _, ok := knownKeys[key]; !ok || !m.v.IsSet(key) {
		return "", false
	}
	return m.v.GetString(key), true
}

// Removes a key from the config file. Reports false when the file did not hold it.
func (m *ConfigManager) DeleteValue(key string) (bool, error) {
	key = strings.ToLower(key)
	if _, ok := knownKeys[key]; !ok {
		return false, fmt.Errorf("unknown config key: %s", key)
	}

	fv := newFileViper(m.path)
	if err := readIfPresent(fv); err != nil {
		return false, err
	}
	if !fv.IsSet(key) {
		return false, nil
	}

	settings := fv.AllSettings()
	deleteNested(settings, strings.Split(key, "."))

	nv := newFileViper(m.path)
	if err := nv.MergeConfigMap(settings); err != nil {
		return false, fmt.Errorf("error rebuilding config: %w", err)
	}
	if err := nv.WriteConfigAs(m.path); err != nil {
		return false, fmt.Errorf("error writing config file: %w", err)
	}

	// Rebuild the layered view so the removed key no longer shadows the environment
	refreshed, err := NewConfigManager(m.path)
	if err != nil {
		return true, err
	}
	m.v = refreshed.v
	return true, nil
}

// Returns the merged settings as a nested map with secret values redacted
func (m *ConfigManager) GetAllSettings() map[string]interface{} {
	settings := m.v.AllSettings()
	for key, spec := range knownKeys {
		if spec.secret && m.v.GetString(key) != "" {
			setNested(settings, strings.Split(key, "."), redactedValue)
		}
	}
	return settings
}

// Returns the sorted list of supported config keys
func KnownKeys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func IsSecretKey(key string) bool {
	return knownKeys[strings.ToLower(key)].secret
}

func parseValue(kind keyKind, value string) (interface{}, error) {
	switch kind {
	case kindInt:
		return strconv.Atoi(value)
	case kindBool:
		return strconv.ParseBool(value)
	default:
		return value, nil
	}
}

func deleteNested(m map[string]interface{}, path []string) {
	if len(path) == 1 {
		delete(m, path[0])
		return
	}
	child, ok := m[path[0]].(map[string]interface{})
	if !ok {
		return
	}
	deleteNested(child, path[1:])
	if len(child) == 0 {
		delete(m, path[0])
	}
}

func setNested(m map[string]interface{}, path []string, value interface{}) {
	if len(path) == 1 {
		m[path[0]] = value
		return
	}
	child, ok := m[path[0]].(map[string]interface{})
	if !ok {
		child = make(map[string]interface{})
		m[path[0]] = child
	}
	setNested(child, path[1:], value)
}
