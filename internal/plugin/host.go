package plugin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/keynote/internal/hotkey"
	"github.com/dshills/keynote/internal/input/key"
	"github.com/dshills/keynote/internal/logging"
	"github.com/dshills/keynote/internal/plugin/lua"
)

// ErrInvalidHotkey is raised into Lua for malformed mark_hotkey arguments.
var ErrInvalidHotkey = errors.New("invalid mark hotkey")

// Host runs one plugin script.
type Host struct {
	name    string
	primary key.Modifier
	logger  *logging.Logger
	state   *lua.State

	bindings []hotkey.Binding
	messages []string
}

// NewHost creates a host for the plugin called name.
func NewHost(name string, primary key.Modifier, logger *logging.Logger) *Host {
	if logger == nil {
		logger = logging.Default()
	}
	h := &Host{
		name:    name,
		primary: primary,
		logger:  logger.WithComponent("plugin").WithField("plugin", name),
		state:   lua.NewState(),
	}
	h.state.RegisterModule("notepad", map[string]glua.LGFunction{
		"mark_hotkey": h.luaMarkHotkey,
		"log":         h.luaLog,
	})
	return h
}

// Name returns the plugin name.
func (h *Host) Name() string { return h.name }

// RunString executes code and returns the bindings it registered.
func (h *Host) RunString(ctx context.Context, code string) ([]hotkey.Binding, error) {
	return h.finish(h.state.DoString(ctx, code))
}

// RunFile executes the script at path and returns the bindings it registered.
func (h *Host) RunFile(ctx context.Context, path string) ([]hotkey.Binding, error) {
	return h.finish(h.state.DoFile(ctx, path))
}

func (h *Host) finish(err error) ([]hotkey.Binding, error) {
	if err != nil {
		h.bindings = nil
		return nil, fmt.Errorf("plugin %s: %w", h.name, err)
	}
	out := h.bindings
	h.bindings = nil
	return out, nil
}

// Messages returns what the script passed to notepad.log.
func (h *Host) Messages() []string {
	return append([]string(nil), h.messages...)
}

// Close releases the interpreter.
func (h *Host) Close() { h.state.Close() }

// luaMarkHotkey accepts a table {key, type, alt} or a chord and mark.
func (h *Host) luaMarkHotkey(L *glua.LState) int {
	var (
		b   hotkey.Binding
		err error
	)
	switch arg := L.Get(1).(type) {
	case *glua.LTable:
		b, err = h.bindingFromTable(L, arg)
	case glua.LString:
		b, err = hotkey.ParseBinding(string(arg), L.CheckString(2), h.primary)
	default:
		L.ArgError(1, "expected table or chord string")
		return 0
	}
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	h.bindings = append(h.bindings, b.WithSource(h.name))
	return 0
}

func (h *Host) bindingFromTable(L *glua.LState, t *glua.LTable) (hotkey.Binding, error) {
	k, ok := L.GetField(t, "key").(glua.LString)
	if !ok || strings.TrimSpace(string(k)) == "" {
		return hotkey.Binding{}, fmt.Errorf("%w: key must be a non-empty string", ErrInvalidHotkey)
	}
	name, ok := L.GetField(t, "type").(glua.LString)
	if !ok {
		return hotkey.Binding{}, fmt.Errorf("%w: type must be a string", ErrInvalidHotkey)
	}
	mark, err := hotkey.ParseMark(string(name))
	if err != nil {
		return hotkey.Binding{}, fmt.Errorf("%w: %w", ErrInvalidHotkey, err)
	}
	id := strings.ToLower(strings.TrimSpace(string(k)))
	if strings.ContainsAny(id, "+ \t") {
		return hotkey.Binding{}, fmt.Errorf("%w: key %q is not a single key", ErrInvalidHotkey, id)
	}
	if _, err := key.Parse(id); err != nil {
		return hotkey.Binding{}, fmt.Errorf("%w: %v", ErrInvalidHotkey, err)
	}

	b := hotkey.NewBinding(id, mark)
	if glua.LVAsBool(L.GetField(t, "alt")) {
		b = b.WithAlt()
	}
	return b, nil
}

func (h *Host) luaLog(L *glua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	msg := strings.Join(parts, " ")
	h.messages = append(h.messages, msg)
	h.logger.Info("%s", msg)
	return 0
}
