// Package snapshot flattens live gopher-lua values into the detached
// structured model in internal/value.
package snapshot

import (
	"github.com/dshills/luasnap/internal/value"
	lua "github.com/yuin/gopher-lua"
)

// Take converts a raw Lua value into a tagged Value plus the map of every
// table reachable from it, keyed by table identity. Identity is the
// interpreter's own address form for the table (the tostring rendering,
// "table: 0x…"), which is stable for the table's lifetime, so snapshots of
// the same live table in later evaluations carry the same identity.
//
// The walk is cycle-safe: a table is marked as visited before its members
// are descended into, so any reference back to it (direct or transitive)
// resolves to an ObjectRef instead of recursing.
//
// Each call starts with fresh visited state. Cross-call identity stability
// comes from the interpreter's addressing, not from shared walker state.
func Take(lv lua.LValue) (value.Value, map[string]value.Object) {
	w := &walker{
		visited: make(map[string]bool),
		objects: make(map[string]value.Object),
	}
	return w.walk(lv), w.objects
}

type walker struct {
	visited map[string]bool
	objects map[string]value.Object
}

func (w *walker) walk(lv lua.LValue) value.Value {
	if lv == nil {
		return value.Nil()
	}

	switch v := lv.(type) {
	case *lua.LNilType:
		return value.Nil()
	case lua.LBool:
		return value.Bool(bool(v))
	case lua.LNumber:
		// gopher-lua has no separate integer kind; LNumber is float64.
		return value.Number(float64(v))
	case lua.LString:
		return value.String(string(v))
	case *lua.LTable:
		return w.walkTable(v)
	default:
		// Functions, userdata, threads, channels. Represented as an
		// opaque placeholder rather than failing the whole evaluation.
		return value.Opaque(lv.String())
	}
}

func (w *walker) walkTable(t *lua.LTable) value.Value {
	id := t.String()

	// Mark before recursing so cycles resolve to a reference.
	if w.visited[id] {
		return value.ObjectRef(id)
	}
	w.visited[id] = true

	// Iterate with Next rather than ForEach: Next follows the
	// interpreter's own pairs() order, which is deterministic for an
	// unchanged table, so re-snapshotting unmutated state yields
	// identical member lists.
	var obj value.Object
	key := lua.LValue(lua.LNil)
	for {
		k, v := t.Next(key)
		if k == lua.LNil {
			break
		}
		obj.Append(w.walk(k), w.walk(v))
		key = k
	}
	w.objects[id] = obj

	return value.ObjectRef(id)
}
