package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// ErrStateClosed is returned when running code on a closed state.
var ErrStateClosed = errors.New("lua state is closed")

// state is a sandboxed Lua state. Scripts get the base, table, string and
// math libraries only; nothing that touches files, processes or modules on
// disk.
type state struct {
	L      *lua.LState
	closed bool
}

func newState() *state {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return &state{L: L}
}

// register installs fn as a global function.
func (s *state) register(name string, fn lua.LGFunction) {
	s.L.SetGlobal(name, s.L.NewFunction(fn))
}

// doString runs code under ctx. name is used in error messages.
func (s *state) doString(ctx context.Context, name, code string) error {
	if s.closed {
		return ErrStateClosed
	}

	fn, err := s.L.Load(strings.NewReader(code), name)
	if err != nil {
		return err
	}

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	return s.doWithRecovery(func() error {
		s.L.Push(fn)
		return s.L.PCall(0, lua.MultRet, nil)
	})
}

// doWithRecovery executes a function with panic recovery.
func (s *state) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

func (s *state) close() {
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
