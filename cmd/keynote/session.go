package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dshills/keynote/internal/app"
	"github.com/dshills/keynote/internal/config"
	"github.com/dshills/keynote/internal/hotkey"
	"github.com/dshills/keynote/internal/logging"
	"github.com/dshills/keynote/internal/persist"
	"github.com/dshills/keynote/internal/plugin"
	"github.com/dshills/keynote/internal/store"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath   string
	logLevel     string
	storeBackend string
	primary      string
	readOnly     bool
}

// session holds what a command needs: configuration, logger, store and
// persistence bridge.
type session struct {
	cfg       *config.Config
	logger    *logging.Logger
	store     store.Store
	bridge    *persist.Bridge
	storeName string
	closers   []io.Closer
}

// loadConfig returns the configuration and the KEYNOTE_* variables that
// named no setting.
func loadConfig(opts *rootOptions) (*config.Config, []string, error) {
	path := opts.configPath
	explicit := path != ""
	if !explicit {
		if env := os.Getenv(config.EnvPrefix + "CONFIG"); env != "" {
			path, explicit = env, true
		} else {
			path = config.DefaultPath()
		}
	}
	if explicit {
		if _, err := os.Stat(path); err != nil {
			return nil, nil, &app.InitError{Component: "config", Err: err}
		}
	}

	loader := config.NewLoader()
	cfg, err := loader.Load(path)
	if err != nil {
		return nil, nil, &app.InitError{Component: "config", Err: err}
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.storeBackend != "" {
		cfg.Store.Backend = opts.storeBackend
	}
	if opts.primary != "" {
		cfg.Hotkeys.Primary = opts.primary
	}
	if opts.readOnly {
		cfg.Editor.ReadOnly = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, &app.InitError{Component: "config", Err: err}
	}
	return cfg, loader.IgnoredEnv(), nil
}

func openSession(ctx context.Context, opts *rootOptions) (*session, error) {
	cfg, ignored, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg}

	logger, closer, err := logging.OpenFile(cfg.Log.File, cfg.LogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logger = logging.Null()
	} else {
		s.closers = append(s.closers, closer)
	}
	logging.SetDefault(logger)
	s.logger = logger
	for _, name := range ignored {
		logger.Debug("ignoring %s: no such setting", name)
	}

	sc := cfg.StoreConfig()
	st, err := store.Open(ctx, sc)
	if err != nil {
		s.Close()
		return nil, &app.InitError{Component: "store", Err: err}
	}
	s.store = st
	s.closers = append(s.closers, st)
	s.storeName = store.Describe(sc)
	s.bridge = persist.NewBridge(st,
		persist.WithKey(cfg.Store.Key),
		persist.WithTimeout(cfg.Store.Timeout),
		persist.WithLogger(logger),
	)
	logger.Info("session opened: store %s", s.storeName)
	return s, nil
}

// hotkeys builds the effective table: configured bindings, the defaults,
// then plugin bindings.
func (s *session) hotkeys(ctx context.Context) (*hotkey.Table, error) {
	bindings, err := s.cfg.Bindings()
	if err != nil {
		return nil, &app.InitError{Component: "hotkeys", Err: err}
	}
	if !s.cfg.Plugins.Enabled || len(s.cfg.Plugins.Paths) == 0 {
		table := hotkey.NewTable(bindings)
		warnUnstyled(s.logger, table)
		return table, nil
	}

	primary, err := s.cfg.Primary()
	if err != nil {
		return nil, &app.InitError{Component: "hotkeys", Err: err}
	}
	scripts, err := plugin.Discover(s.cfg.Plugins.Paths)
	if err != nil {
		// A broken plugin directory does not stop the editor.
		s.logger.Warn("%v", app.NewComponentError("plugin", "discover", err))
		table := hotkey.NewTable(bindings)
		warnUnstyled(s.logger, table)
		return table, nil
	}
	extra, results := plugin.LoadAll(ctx, scripts, primary, s.logger)
	for _, r := range results {
		if r.Err != nil {
			s.logger.Warn("%v", app.NewComponentError("plugin", "load "+r.Script.Name, r.Err))
		}
	}
	table := hotkey.NewTable(bindings, extra)
	warnUnstyled(s.logger, table)
	return table, nil
}

// warnUnstyled notes bindings whose mark the renderer has no style for.
func warnUnstyled(logger *logging.Logger, table *hotkey.Table) {
	for _, b := range table.Bindings() {
		if !b.Mark.IsKnown() {
			logger.Warn("hotkey %s (%s) toggles unknown mark %q; it is saved but drawn unstyled", b.Key, b.Source, b.Mark)
		}
	}
}

// Close releases the store and the log file.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i].Close()
	}
	s.closers = nil
}
