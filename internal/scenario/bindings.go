package scenario

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pauseclick/internal/config"
	"github.com/dshills/pauseclick/internal/host"
	"github.com/dshills/pauseclick/internal/logging"
	"github.com/dshills/pauseclick/internal/mouse"
)

// env holds what the script bindings act on.
type env struct {
	host   *host.Host
	store  *config.Store
	report *Report
	out    io.Writer
	logger *logging.Logger
}

func (e *env) install(s *state) {
	funcs := map[string]lua.LGFunction{
		"press":        e.press,
		"release":      e.release,
		"click":        e.click,
		"double_click": e.doubleClick,
		"scroll":       e.scroll,
		"wait":         e.wait,
		"now":          e.now,
		"set":          e.set,
		"unset":        e.unset,
		"get":          e.get,
		"menu":         e.menu,
		"attach":       e.lifecycle(e.host.AttachInterface),
		"detach":       e.lifecycle(e.host.DetachInterface),
		"load":         e.lifecycle(e.host.Load),
		"unload":       e.lifecycle(e.host.Unload),
		"toggles":      e.toggles,
		"paused":       e.paused,
		"fullscreen":   e.fullscreen,
		"context_menu": e.contextMenu,
		"icons":        e.icons,
		"armed":        e.armed,
		"decision":     e.decision,
		"expect":       e.expect,
		"log":          e.log,
	}
	for name, fn := range funcs {
		s.register(name, fn)
	}
}

// finish copies the final host state into the report.
func (e *env) finish() {
	r := e.report
	r.Elapsed = e.host.Now().Sub(epoch)
	r.Toggles = e.host.Player().Toggles()
	r.Paused = e.host.Player().Paused()
	r.Fullscreen = e.host.Fullscreen()
	r.ContextMenu = e.host.ContextMenu()
	r.Icons = e.host.OSD().Icons()
	r.Stats = e.host.Stats()
}

// button reads argument n as a button name or index. def is used when the
// argument is absent; ButtonNone makes it required.
func button(L *lua.LState, n int, def mouse.Button) mouse.Button {
	switch v := L.Get(n).(type) {
	case lua.LString:
		b, err := mouse.ParseButton(string(v))
		if err != nil {
			L.ArgError(n, err.Error())
		}
		if b == mouse.ButtonNone {
			L.ArgError(n, "a real button is required")
		}
		return b
	case lua.LNumber:
		b, ok := mouse.ButtonFromIndex(int64(v))
		if !ok || b == mouse.ButtonNone {
			L.ArgError(n, fmt.Sprintf("invalid button index %v", v))
		}
		return b
	case *lua.LNilType:
		if def == mouse.ButtonNone {
			L.ArgError(n, "button expected")
		}
		return def
	default:
		L.TypeError(n, lua.LTString)
	}
	return mouse.ButtonNone
}

func (e *env) press(L *lua.LState) int {
	e.host.Press(button(L, 1, mouse.ButtonNone))
	return 0
}

func (e *env) release(L *lua.LState) int {
	e.host.Release(button(L, 1, mouse.ButtonNone))
	return 0
}

func (e *env) click(L *lua.LState) int {
	e.host.Click(button(L, 1, mouse.ButtonLeft))
	return 0
}

func (e *env) doubleClick(L *lua.LState) int {
	e.host.DoubleClick(button(L, 1, mouse.ButtonLeft))
	return 0
}

// scroll takes "up", "down", "left" or "right", or any wheel button name.
func (e *env) scroll(L *lua.LState) int {
	dir := L.CheckString(1)
	b, err := mouse.ParseButton(dir)
	if err != nil || !b.IsWheel() {
		b, err = mouse.ParseButton("wheel-" + dir)
	}
	if err != nil || !b.IsWheel() {
		L.ArgError(1, fmt.Sprintf("unknown scroll direction %q", dir))
	}
	e.host.Scroll(b)
	return 0
}

func (e *env) wait(L *lua.LState) int {
	ms := float64(L.CheckNumber(1))
	if ms < 0 || math.IsNaN(ms) {
		L.ArgError(1, "wait needs a non-negative number of milliseconds")
	}
	e.host.Wait(time.Duration(ms * float64(time.Millisecond)))
	return 0
}

func (e *env) now(L *lua.LState) int {
	L.Push(lua.LNumber(e.host.Now().Sub(epoch).Milliseconds()))
	return 1
}

// key accepts a setting key with or without the common prefix.
func (e *env) key(L *lua.LState, n int) *config.Setting {
	name := L.CheckString(n)
	reg := e.store.Registry()
	if s, ok := reg.Lookup(name); ok {
		return s
	}
	if s, ok := reg.Lookup(config.Prefix + name); ok {
		return s
	}
	L.ArgError(n, fmt.Sprintf("unknown setting %q", name))
	return nil
}

func (e *env) set(L *lua.LState) int {
	s := e.key(L, 1)

	var value any
	switch v := L.CheckAny(2).(type) {
	case lua.LBool:
		value = bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) {
			value = int64(f)
		} else {
			value = f
		}
	case lua.LString:
		value = string(v)
		if s.Type == config.TypeInt && len(s.Choices) > 0 {
			b, err := mouse.ParseButton(string(v))
			if err != nil {
				L.ArgError(2, err.Error())
			}
			value = b.Index()
		}
	default:
		L.TypeError(2, lua.LTNumber)
	}

	if err := e.store.Set(s.Key, value); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (e *env) unset(L *lua.LState) int {
	e.store.Unset(e.key(L, 1).Key)
	return 0
}

func (e *env) get(L *lua.LState) int {
	switch v := e.store.Get(e.key(L, 1).Key).(type) {
	case bool:
		L.Push(lua.LBool(v))
	case int64:
		L.Push(lua.LNumber(v))
	case string:
		L.Push(lua.LString(v))
	default:
		L.Push(lua.LNil)
	}
	return 1
}

func (e *env) menu(L *lua.LState) int {
	e.host.Player().SetInteractiveMenu(L.CheckBool(1))
	return 0
}

// lifecycle wraps a host lifecycle call as a binding returning ok, err.
func (e *env) lifecycle(fn func() error) lua.LGFunction {
	return func(L *lua.LState) int {
		if err := fn(); err != nil {
			L.Push(lua.LFalse)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		L.Push(lua.LTrue)
		return 1
	}
}

func (e *env) toggles(L *lua.LState) int {
	L.Push(lua.LNumber(e.host.Player().Toggles()))
	return 1
}

func (e *env) paused(L *lua.LState) int {
	L.Push(lua.LBool(e.host.Player().Paused()))
	return 1
}

func (e *env) fullscreen(L *lua.LState) int {
	L.Push(lua.LBool(e.host.Fullscreen()))
	return 1
}

func (e *env) contextMenu(L *lua.LState) int {
	L.Push(lua.LBool(e.host.ContextMenu()))
	return 1
}

// icons returns the OSD icons shown so far as a list of "pause"/"play".
func (e *env) icons(L *lua.LState) int {
	t := L.NewTable()
	for _, ic := range e.host.OSD().Icons() {
		t.Append(lua.LString(ic.String()))
	}
	L.Push(t)
	return 1
}

func (e *env) armed(L *lua.LState) int {
	L.Push(lua.LBool(e.host.Armed()))
	return 1
}

func (e *env) decision(L *lua.LState) int {
	L.Push(lua.LString(e.host.Stats().LastDecision.String()))
	return 1
}

// expect records an expectation. A failure does not stop the script.
func (e *env) expect(L *lua.LState) int {
	ok := lua.LVAsBool(L.Get(1))
	msg := L.OptString(2, "expectation")

	if ok {
		e.report.Passed++
	} else {
		f := Failure{Where: L.Where(1), Message: msg}
		e.report.Failed++
		e.report.Failures = append(e.report.Failures, f)
		e.logger.Warn("expectation failed: %s", f)
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (e *env) log(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	line := strings.Join(parts, " ")

	e.report.Logs = append(e.report.Logs, line)
	if e.out != nil {
		fmt.Fprintln(e.out, line)
	}
	return 0
}
