package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "KEYNOTE_"

// envMapping names variables whose path does not follow from the name.
var envMapping = map[string]string{
	"KEYNOTE_LOG_LEVEL":       "log.level",
	"KEYNOTE_LOG_FILE":        "log.file",
	"KEYNOTE_STORE":           "store.backend",
	"KEYNOTE_STORE_MAX_BYTES": "store.max_bytes",
	"KEYNOTE_REDIS_ADDR":      "store.redis.addr",
	"KEYNOTE_REDIS_PASSWORD":  "store.redis.password",
	"KEYNOTE_REDIS_DB":        "store.redis.db",
	"KEYNOTE_REDIS_PREFIX":    "store.redis.prefix",
	"KEYNOTE_PRIMARY":         "hotkeys.primary",
	"KEYNOTE_READONLY":        "editor.read_only",
}

// rawPaths keep the variable's text as-is.
var rawPaths = map[string]bool{
	"log.file":             true,
	"store.dir":            true,
	"store.path":           true,
	"store.key":            true,
	"store.redis.password": true,
	"store.redis.prefix":   true,
}

// envSkip lists variables the loader never maps.
var envSkip = map[string]bool{
	"KEYNOTE_CONFIG": true,
}

// EnvLoader builds a configuration layer from KEYNOTE_* variables. Only
// variables naming a known setting are used; the rest are recorded in
// Ignored.
type EnvLoader struct {
	environ func() []string
	known   map[string]bool
	ignored []string
}

// NewEnvLoader reads the process environment.
func NewEnvLoader() *EnvLoader {
	return &EnvLoader{environ: os.Environ, known: settingPaths()}
}

// NewEnvLoaderFrom reads the given KEY=VALUE pairs.
func NewEnvLoaderFrom(env []string) *EnvLoader {
	return &EnvLoader{environ: func() []string { return env }, known: settingPaths()}
}

// Ignored returns the KEYNOTE_* variables the last Load skipped because
// they name no setting.
func (l *EnvLoader) Ignored() []string { return l.ignored }

// Load returns the overrides as a nested map.
func (l *EnvLoader) Load() map[string]any {
	out := make(map[string]any)
	l.ignored = nil
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) || envSkip[name] {
			continue
		}
		path, mapped := envMapping[name]
		if !mapped {
			path = envToPath(name)
		}
		if !l.known[path] {
			l.ignored = append(l.ignored, name)
			continue
		}
		if rawPaths[path] {
			setByPath(out, path, value)
			continue
		}
		setByPath(out, path, parseValue(value))
	}
	return out
}

// settingPaths lists the dotted path of every leaf in Defaults.
func settingPaths() map[string]bool {
	paths := make(map[string]bool)
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			if sub, ok := v.(map[string]any); ok {
				walk(prefix+k+".", sub)
				continue
			}
			paths[prefix+k] = true
		}
	}
	walk("", Defaults())
	return paths
}

// envToPath turns KEYNOTE_EDITOR_SHOW_SIDEBAR into editor.show_sidebar.
func envToPath(name string) string {
	rest := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	section, setting, ok := strings.Cut(rest, "_")
	if !ok || section == "" || setting == "" {
		return ""
	}
	return section + "." + setting
}

// parseValue converts an environment string to the most specific type.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return s
}

func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	cur := data
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}
