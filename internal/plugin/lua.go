package plugin

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Lua plugin modules are single .lua files. The chunk is executed once
// at load time; any of the global functions build_tab, set_cancelled
// and show_settings_dialog it defines become the module's capability
// set. build_tab may return either a plain string (static tab body) or
// a table with optional "title" and "text" fields and an optional
// "view" function(width, height) -> string.
//
// Each module owns a private LState. LStates are not goroutine safe;
// all invocations happen on the shell's event loop goroutine, which is
// the only caller.

// LoadLuaFile executes the Lua chunk at path and wraps it as a loaded
// module bound under name. Errors raised while the chunk runs are
// returned, never propagated as panics.
func LoadLuaFile(name, path string) (m *LoadedModule, err error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	defer func() {
		if r := recover(); r != nil {
			L.Close()
			m, err = nil, fmt.Errorf("plugin %s: load panicked: %v", name, r)
		}
	}()

	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("plugin %s: %w", name, err)
	}

	b := &luaBinding{L: L}
	return &LoadedModule{name: name, caps: b.capabilities(), b: b}, nil
}

// openSafeLibraries opens only the Lua standard libraries a tab plugin
// legitimately needs. io, os, debug and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

type luaBinding struct {
	L *lua.LState
}

func (b *luaBinding) capabilities() CapabilitySet {
	var caps CapabilitySet
	for _, c := range []Capability{CapBuildTab, CapSetCancelled, CapShowSettings} {
		if _, ok := b.L.GetGlobal(c.String()).(*lua.LFunction); ok {
			caps |= CapabilitySet(c)
		}
	}
	return caps
}

func (b *luaBinding) buildTab(host Host) (Widget, error) {
	container := b.L.NewTable()
	b.L.SetField(container, "set_status", b.L.NewFunction(func(L *lua.LState) int {
		host.SetStatus(L.CheckString(1))
		return 0
	}))

	ret, err := b.call(CapBuildTab.String(), 1, container)
	if err != nil {
		return nil, err
	}

	switch v := ret.(type) {
	case lua.LString:
		return StaticWidget{Text: string(v)}, nil
	case *lua.LTable:
		return b.widgetFromTable(v), nil
	default:
		return nil, fmt.Errorf("build_tab returned %s, want string or table", ret.Type())
	}
}

func (b *luaBinding) widgetFromTable(t *lua.LTable) Widget {
	if fn, ok := b.L.GetField(t, "view").(*lua.LFunction); ok {
		return &luaWidget{L: b.L, view: fn}
	}
	text := lua.LVAsString(b.L.GetField(t, "text"))
	return StaticWidget{Text: text}
}

func (b *luaBinding) setCancelled(flag bool) error {
	_, err := b.call(CapSetCancelled.String(), 0, lua.LBool(flag))
	return err
}

func (b *luaBinding) showSettings(parent Window) error {
	window := b.L.NewTable()
	b.L.SetField(window, "show_dialog", b.L.NewFunction(func(L *lua.LState) int {
		parent.ShowDialog(L.CheckString(1), L.CheckString(2))
		return 0
	}))

	_, err := b.call(CapShowSettings.String(), 0, window)
	return err
}

// call invokes the named global in protected mode and returns its
// first result when nret is 1.
func (b *luaBinding) call(name string, nret int, args ...lua.LValue) (lua.LValue, error) {
	fn, ok := b.L.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return lua.LNil, fmt.Errorf("global %s is not a function", name)
	}
	if err := b.L.CallByParam(lua.P{Fn: fn, NRet: nret, Protect: true}, args...); err != nil {
		return lua.LNil, err
	}
	if nret == 0 {
		return lua.LNil, nil
	}
	ret := b.L.Get(-1)
	b.L.Pop(1)
	return ret, nil
}

// StaticWidget renders fixed text, ignoring the requested size.
type StaticWidget struct {
	Text string
}

func (w StaticWidget) View(width, height int) string { return w.Text }

// luaWidget re-renders by calling the plugin's view function each
// frame. A view error is shown in place of the tab body rather than
// surfaced as a failure; the tab was already built successfully.
type luaWidget struct {
	L    *lua.LState
	view *lua.LFunction
}

func (w *luaWidget) View(width, height int) string {
	err := w.L.CallByParam(
		lua.P{Fn: w.view, NRet: 1, Protect: true},
		lua.LNumber(width), lua.LNumber(height),
	)
	if err != nil {
		return fmt.Sprintf("view error: %v", err)
	}
	ret := w.L.Get(-1)
	w.L.Pop(1)
	return lua.LVAsString(ret)
}
