package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/dshills/keynote/internal/hotkey"
	"github.com/dshills/keynote/internal/input/key"
	"github.com/dshills/keynote/internal/logging"
	"github.com/dshills/keynote/internal/store"
)

// Config is the decoded, validated configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
	Hotkeys HotkeyConfig  `mapstructure:"hotkeys"`
	Editor  EditorConfig  `mapstructure:"editor"`
	Plugins PluginsConfig `mapstructure:"plugins"`
}

// LogConfig selects the log file and level.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// StoreConfig selects the snapshot backend.
type StoreConfig struct {
	Backend  string        `mapstructure:"backend"`
	Key      string        `mapstructure:"key"`
	Dir      string        `mapstructure:"dir"`
	Path     string        `mapstructure:"path"`
	MaxBytes int64         `mapstructure:"max_bytes"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Redis    RedisConfig   `mapstructure:"redis"`
}

// RedisConfig addresses the redis backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// HotkeyConfig adds bindings ahead of the defaults.
type HotkeyConfig struct {
	// Primary is "meta" or "ctrl".
	Primary         string          `mapstructure:"primary"`
	Bindings        []BindingConfig `mapstructure:"bindings"`
	DisableDefaults bool            `mapstructure:"disable_defaults"`
}

// BindingConfig is one configured chord.
type BindingConfig struct {
	Chord string `mapstructure:"chord"`
	Mark  string `mapstructure:"mark"`
}

// EditorConfig holds initial UI state.
type EditorConfig struct {
	ReadOnly    bool `mapstructure:"read_only"`
	ShowSidebar bool `mapstructure:"show_sidebar"`
}

// PluginsConfig lists Lua hotkey plugins.
type PluginsConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Paths   []string `mapstructure:"paths"`
}

// Defaults returns the built-in layer.
func Defaults() map[string]any {
	data := dataDir()
	return map[string]any{
		"log": map[string]any{
			"level": "info",
			"file":  filepath.Join(data, "keynote.log"),
		},
		"store": map[string]any{
			"backend":   store.BackendFile,
			"key":       "content",
			"dir":       filepath.Join(data, "store"),
			"path":      filepath.Join(data, "keynote.db"),
			"max_bytes": int64(5 << 20),
			"timeout":   "2s",
			"redis": map[string]any{
				"addr":     "localhost:6379",
				"password": "",
				"db":       0,
				"prefix":   store.DefaultRedisPrefix,
			},
		},
		"hotkeys": map[string]any{
			"primary":          "meta",
			"disable_defaults": false,
		},
		"editor": map[string]any{
			"read_only":    false,
			"show_sidebar": true,
		},
		"plugins": map[string]any{
			"enabled": true,
			"paths":   []any{},
		},
	}
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "keynote")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "keynote")
	}
	return filepath.Join(os.TempDir(), "keynote")
}

// DefaultPath returns the configuration file looked up when none is given.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "keynote", "keynote.toml")
	}
	return "keynote.toml"
}

// Loader assembles a Config from its layers.
type Loader struct {
	fs  FileSystem
	env *EnvLoader
}

// NewLoader reads files from the OS and overrides from the environment.
func NewLoader() *Loader {
	return &Loader{fs: OSFS{}, env: NewEnvLoader()}
}

// NewLoaderWith uses the given file system and environment.
func NewLoaderWith(fsys FileSystem, env *EnvLoader) *Loader {
	return &Loader{fs: fsys, env: env}
}

// IgnoredEnv returns the KEYNOTE_* variables the last Load skipped.
func (l *Loader) IgnoredEnv() []string {
	if l.env == nil {
		return nil
	}
	return l.env.Ignored()
}

// Load reads path (optional; empty or missing skips the file layer), applies
// the environment, decodes and validates.
func (l *Loader) Load(path string) (*Config, error) {
	merged := Defaults()
	if path != "" {
		file, err := LoadFile(l.fs, path)
		if err != nil {
			return nil, err
		}
		merged = DeepMerge(merged, file)
	}
	if l.env != nil {
		merged = DeepMerge(merged, l.env.Load())
	}

	cfg, err := Decode(merged)
	if err != nil {
		return nil, err
	}
	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode converts a merged map into a Config.
func Decode(m map[string]any) (*Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			rejectBareDurations,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("config decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// rejectBareDurations refuses numbers for duration settings, so "5" is an
// error instead of five nanoseconds.
func rejectBareDurations(from, to reflect.Type, data any) (any, error) {
	if to != durationType || from == durationType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil, fmt.Errorf("duration %v has no unit (use a value such as \"%vs\")", data, data)
	}
	return data, nil
}

func (c *Config) expandPaths() {
	c.Log.File = expandHome(c.Log.File)
	c.Store.Dir = expandHome(c.Store.Dir)
	c.Store.Path = expandHome(c.Store.Path)
	for i, p := range c.Plugins.Paths {
		c.Plugins.Paths[i] = expandHome(p)
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// ValidationError describes one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "%v", err)
	}

	if !slices.Contains(store.Backends, c.Store.Backend) {
		add("store.backend", "unknown backend %q (want one of %s)", c.Store.Backend, strings.Join(store.Backends, ", "))
	}
	if c.Store.Key == "" {
		add("store.key", "must not be empty")
	}
	if c.Store.MaxBytes < 0 {
		add("store.max_bytes", "must not be negative")
	}
	if c.Store.Timeout < 0 {
		add("store.timeout", "must not be negative")
	}
	switch c.Store.Backend {
	case store.BackendFile:
		if c.Store.Dir == "" {
			add("store.dir", "required for the file backend")
		}
	case store.BackendSQLite:
		if c.Store.Path == "" {
			add("store.path", "required for the sqlite backend")
		}
	case store.BackendRedis:
		if c.Store.Redis.Addr == "" {
			add("store.redis.addr", "required for the redis backend")
		}
	}

	primary, err := c.Primary()
	if err != nil {
		add("hotkeys.primary", "%v", err)
	} else {
		for i, b := range c.Hotkeys.Bindings {
			if _, err := hotkey.ParseBinding(b.Chord, b.Mark, primary); err != nil {
				add(fmt.Sprintf("hotkeys.bindings[%d]", i), "%v", err)
			}
		}
	}

	return errors.Join(errs...)
}

// Primary returns the configured primary modifier.
func (c *Config) Primary() (key.Modifier, error) {
	return key.ParsePrimary(c.Hotkeys.Primary)
}

// Bindings returns the configured bindings followed by the defaults unless
// they are disabled. Invalid entries are reported by Validate.
func (c *Config) Bindings() ([]hotkey.Binding, error) {
	primary, err := c.Primary()
	if err != nil {
		return nil, err
	}
	out := make([]hotkey.Binding, 0, len(c.Hotkeys.Bindings)+5)
	for _, bc := range c.Hotkeys.Bindings {
		b, err := hotkey.ParseBinding(bc.Chord, bc.Mark, primary)
		if err != nil {
			return nil, err
		}
		out = append(out, b.WithSource("config"))
	}
	if !c.Hotkeys.DisableDefaults {
		out = append(out, hotkey.DefaultBindings()...)
	}
	return out, nil
}

// StoreConfig converts the store section for store.Open.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Backend:  c.Store.Backend,
		MaxBytes: c.Store.MaxBytes,
		Dir:      c.Store.Dir,
		Path:     c.Store.Path,
		Redis: store.RedisConfig{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
			Prefix:   c.Store.Redis.Prefix,
		},
	}
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}
