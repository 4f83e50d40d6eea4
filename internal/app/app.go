// Package app wires the editing surface, the hotkey table, persistence and
// the renderer into the interactive notepad.
package app

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/dshills/keynote/internal/document"
	"github.com/dshills/keynote/internal/editor"
	"github.com/dshills/keynote/internal/hotkey"
	"github.com/dshills/keynote/internal/input/key"
	"github.com/dshills/keynote/internal/logging"
	"github.com/dshills/keynote/internal/persist"
	"github.com/dshills/keynote/internal/renderer"
	"github.com/dshills/keynote/internal/renderer/backend"
	"github.com/dshills/keynote/internal/store"
)

// Surface is the editing capability the application drives.
type Surface interface {
	Document() *document.Document
	Cursor() document.Point
	Selection() (document.Range, bool)
	ActiveMarks() document.MarkSet
	OnChange(fn editor.ChangeFunc)

	ReadOnly() bool
	SetReadOnly(ro bool)

	ToggleMark(m document.Mark) bool
	InsertText(s string) bool
	SplitBlock() bool
	DeleteBackward() bool
	DeleteForward() bool
	Move(dir editor.Direction, extend bool)
	MoveTo(p document.Point, extend bool)
	ClearSelection()
	Replace(doc *document.Document)
}

var _ Surface = (*editor.Editor)(nil)

// Options configures the application.
type Options struct {
	// Backend is the terminal to draw on. Required.
	Backend backend.Backend

	// Bridge loads and saves the document. Required.
	Bridge *persist.Bridge

	// Table is the hotkey table. Nil uses the default bindings.
	Table *hotkey.Table

	// Primary is the modifier every hotkey requires. Zero means Meta.
	Primary key.Modifier

	// ReadOnly starts the surface read-only.
	ReadOnly bool

	// ShowSidebar starts with the hotkey sidebar visible.
	ShowSidebar bool

	// StoreName describes the storage backend in the status line.
	StoreName string

	Schema *renderer.Schema
	Logger *logging.Logger
}

// Application is the interactive notepad. All document access happens on
// the goroutine running Run.
type Application struct {
	backend  backend.Backend
	renderer *renderer.Renderer
	surface  Surface
	bridge   *persist.Bridge
	table    *hotkey.Table
	resolver hotkey.Resolver
	logger   *logging.Logger

	// UI state
	showSidebar bool
	storeName   string
	message     string
	warning     bool

	pasting bool
	paste   strings.Builder

	ctx     context.Context
	running atomic.Bool
}

// New loads the stored document and builds the application around it.
func New(ctx context.Context, opts Options) (*Application, error) {
	if opts.Backend == nil {
		return nil, &InitError{Component: "backend", Err: errors.New("no backend")}
	}
	if opts.Bridge == nil {
		return nil, &InitError{Component: "persistence", Err: errors.New("no bridge")}
	}
	if opts.Table == nil {
		opts.Table = hotkey.NewTable(hotkey.DefaultBindings())
	}
	if opts.Primary.IsEmpty() {
		opts.Primary = key.ModMeta
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	app := &Application{
		backend:     opts.Backend,
		renderer:    renderer.New(opts.Backend, opts.Schema),
		bridge:      opts.Bridge,
		table:       opts.Table,
		resolver:    hotkey.NewResolver(opts.Primary),
		logger:      opts.Logger.WithComponent("app"),
		showSidebar: opts.ShowSidebar,
		storeName:   opts.StoreName,
		ctx:         context.Background(),
	}

	doc := app.bridge.LoadInitial(ctx)
	ed := editor.New(doc, editor.Options{ReadOnly: opts.ReadOnly})
	ed.OnChange(app.onChange)
	app.surface = ed

	app.logger.Info("loaded document: %d blocks, %d hotkeys", len(doc.Nodes), app.table.Len())
	return app, nil
}

// Surface returns the editing surface.
func (app *Application) Surface() Surface { return app.surface }

// Message returns the status line message and whether it is a warning.
func (app *Application) Message() (string, bool) { return app.message, app.warning }

// SidebarVisible reports whether the hotkey sidebar is shown.
func (app *Application) SidebarVisible() bool { return app.showSidebar }

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool { return app.running.Load() }

// Run initializes the backend and processes events until quit is requested,
// the backend closes, or ctx is canceled.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	app.ctx = ctx
	defer func() { app.ctx = context.Background() }()

	events := make(chan backend.Event)
	stop := make(chan struct{})
	defer close(stop)
	go app.poll(events, stop)

	app.draw()
	for {
		select {
		case <-ctx.Done():
			app.logger.Debug("context done: %v", ctx.Err())
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handleEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					app.logger.Info("quit")
					return nil
				}
				return err
			}
			app.draw()
		}
	}
}

// poll forwards backend events until the backend closes or stop is closed.
func (app *Application) poll(events chan<- backend.Event, stop <-chan struct{}) {
	defer close(events)
	for {
		ev, ok := app.backend.PollEvent()
		if !ok {
			return
		}
		select {
		case events <- ev:
		case <-stop:
			return
		}
	}
}

// Frame builds the current screen contents.
func (app *Application) Frame() renderer.Frame {
	sel, selecting := app.surface.Selection()
	stats := app.bridge.Stats()
	f := renderer.Frame{
		Doc:         app.surface.Document(),
		Cursor:      app.surface.Cursor(),
		Selection:   sel,
		Selecting:   selecting,
		ShowSidebar: app.showSidebar,
		Status: renderer.Status{
			ReadOnly: app.surface.ReadOnly(),
			Store:    app.storeName,
			Marks:    app.surface.ActiveMarks(),
			Message:  app.message,
			Warning:  app.warning,
			Saves:    stats.Saves,
			Failures: stats.Failures,
		},
	}
	if app.showSidebar {
		primary := app.resolver.Primary()
		for _, b := range app.table.Bindings() {
			f.Sidebar = append(f.Sidebar, renderer.SidebarEntry{Chord: b.Spec(primary), Mark: string(b.Mark)})
		}
	}
	return f
}

func (app *Application) draw() {
	app.renderer.Draw(app.Frame())
}

// onChange saves every committed change. A failed write keeps the change
// on screen and shows a warning.
func (app *Application) onChange(ev editor.ChangeEvent) {
	if err := app.save(ev.Document); err != nil {
		return
	}
	if app.warning {
		app.setMessage("", false)
	}
}

func (app *Application) save(doc *document.Document) error {
	err := app.bridge.OnDocumentChanged(app.ctx, doc)
	if err == nil {
		return nil
	}
	var ww *persist.WriteWarning
	if errors.As(err, &ww) && ww.QuotaExceeded() {
		app.setMessage("not saved: storage quota exceeded", true)
	} else {
		app.setMessage("not saved: "+err.Error(), true)
	}
	return err
}

// reload replaces the document with the stored snapshot, picking up an
// import made while the editor runs.
func (app *Application) reload() {
	doc, err := app.bridge.Load(app.ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		doc = document.Default()
	case err != nil:
		app.logger.Warn("%v", NewOperationError("reload", app.bridge.Key(), err))
		app.setMessage("reload failed: "+err.Error(), true)
		return
	}
	app.surface.Replace(doc)
	app.setMessage("reloaded", false)
}

func (app *Application) setMessage(msg string, warning bool) {
	app.message = msg
	app.warning = warning
}
