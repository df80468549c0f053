package loader

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"
)

// DefaultScriptTimeout bounds how long a Lua document may run.
const DefaultScriptTimeout = 2 * time.Second

// LuaDecoder evaluates a Lua script and decodes the table it returns.
//
// Scripts run with only the base, table, string, and math libraries, and
// without dofile, loadfile, load, or loadstring. The returned table is
// mapped onto v through its yaml field tags, so a script describes the same
// document a YAML file would:
//
//	local actions = {}
//	for i = 1, 4 do
//	  actions[#actions + 1] = { name = "Weapon" .. i, chord = "F" .. i }
//	end
//	return { title = "Generated", actions = actions }
type LuaDecoder struct {
	// Timeout overrides DefaultScriptTimeout when positive.
	Timeout time.Duration
}

var luaLinePattern = regexp.MustCompile(`:(\d+):`)

// Decode runs the script in data and decodes its result into v. A script
// that returns nothing leaves v untouched.
func (d LuaDecoder) Decode(source string, data []byte, v any) error {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibraries(L)
	L.SetContext(ctx)

	ret, err := runScript(L, source, data)
	if err != nil {
		return luaParseError(source, err)
	}
	if ret == lua.LNil {
		return nil
	}

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return &ParseError{
			Path:    source,
			Message: fmt.Sprintf("script must return a table, got %s", ret.Type()),
		}
	}

	doc, err := yaml.Marshal(fromLua(tbl))
	if err != nil {
		return &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	if err := yaml.Unmarshal(doc, v); err != nil {
		return &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return nil
}

// runScript executes the chunk and returns its first result.
func runScript(L *lua.LState, source string, data []byte) (ret lua.LValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	fn, err := L.Load(bytes.NewReader(data), source)
	if err != nil {
		return nil, err
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return nil, err
	}
	ret = L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// openSafeLibraries opens the libraries a document script may use.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// fromLua converts a Lua value into plain Go values. Tables with only
// sequence keys become slices; other tables become maps keyed by the string
// form of their keys.
func fromLua(v lua.LValue) any {
	switch x := v.(type) {
	case lua.LBool:
		return bool(x)
	case lua.LNumber:
		f := float64(x)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(x)
	case *lua.LTable:
		n := x.MaxN()
		isList := n > 0
		m := make(map[string]any)
		x.ForEach(func(k, val lua.LValue) {
			if num, ok := k.(lua.LNumber); ok && isList {
				if i := int(num); float64(i) == float64(num) && i >= 1 && i <= n {
					return
				}
			}
			isList = false
			m[k.String()] = fromLua(val)
		})
		if n == 0 && len(m) == 0 {
			return nil
		}
		if isList {
			list := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				list = append(list, fromLua(x.RawGetInt(i)))
			}
			return list
		}
		for i := 1; i <= n; i++ {
			m[strconv.Itoa(i)] = fromLua(x.RawGetInt(i))
		}
		return m
	default:
		return nil
	}
}

func luaParseError(source string, err error) error {
	pe := &ParseError{
		Path:    source,
		Message: err.Error(),
		Err:     err,
	}
	if apiErr, ok := err.(*lua.ApiError); ok && apiErr.Object != nil {
		pe.Message = apiErr.Object.String()
	}
	if m := luaLinePattern.FindStringSubmatch(pe.Message); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
	}
	return pe
}
