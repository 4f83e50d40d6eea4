package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/keynote/internal/hotkey"
	"github.com/dshills/keynote/internal/input/key"
	"github.com/dshills/keynote/internal/logging"
)

// Script is a plugin file found on disk.
type Script struct {
	Name string
	Path string
}

// Discover expands paths into scripts. Directories contribute their *.lua
// files in name order; missing paths are skipped.
func Discover(paths []string) ([]Script, error) {
	var out []Script
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("plugin path %s: %w", p, err)
		}
		if !info.IsDir() {
			out = append(out, scriptFor(p))
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*.lua"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		for _, m := range matches {
			out = append(out, scriptFor(m))
		}
	}
	return out, nil
}

func scriptFor(path string) Script {
	return Script{Name: strings.TrimSuffix(filepath.Base(path), ".lua"), Path: path}
}

// Result is the outcome of running one script.
type Result struct {
	Script   Script
	Bindings []hotkey.Binding
	Err      error
}

// LoadAll runs every script and returns the bindings of the ones that
// succeeded, in script order, with per-script results. Failed scripts
// contribute no bindings; reporting them is left to the caller.
func LoadAll(ctx context.Context, scripts []Script, primary key.Modifier, logger *logging.Logger) ([]hotkey.Binding, []Result) {
	if logger == nil {
		logger = logging.Default()
	}
	var (
		all     []hotkey.Binding
		results []Result
	)
	for _, s := range scripts {
		h := NewHost(s.Name, primary, logger)
		bindings, err := h.RunFile(ctx, s.Path)
		h.Close()

		results = append(results, Result{Script: s, Bindings: bindings, Err: err})
		if err != nil {
			continue
		}
		logger.WithComponent("plugin").Debug("plugin %s registered %d hotkeys", s.Name, len(bindings))
		all = append(all, bindings...)
	}
	return all, results
}
