// Package render serializes evaluation responses to JSON text for the
// REPL frontend. The JSON shape is frontend output, not a wire protocol
// for the session itself.
package render

import (
	"sort"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/luasnap/internal/value"
)

// Renderer formats responses as JSON, optionally pretty-printed.
type Renderer struct {
	pretty bool
}

// New creates a Renderer.
func New(prettyPrint bool) *Renderer {
	return &Renderer{pretty: prettyPrint}
}

// Render serializes one response:
//
//	{
//	  "success": true,
//	  "value": {"type": "ref", "id": "table: 0x…"},
//	  "objects": {"table: 0x…": [[{…key}, {…value}], …]},
//	  "error": "…"            // only when success is false
//	}
//
// Object identities are emitted in sorted order so output is stable.
func (r *Renderer) Render(resp *value.Response) ([]byte, error) {
	out := []byte(`{}`)

	out, err := sjson.SetBytes(out, "success", resp.Success)
	if err != nil {
		return nil, err
	}

	val, err := encodeValue(resp.Value)
	if err != nil {
		return nil, err
	}
	if out, err = sjson.SetRawBytes(out, "value", val); err != nil {
		return nil, err
	}

	objs := []byte(`{}`)
	ids := make([]string, 0, len(resp.Objects))
	for id := range resp.Objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		members, err := encodeObject(resp.Objects[id])
		if err != nil {
			return nil, err
		}
		if objs, err = sjson.SetRawBytes(objs, escapePath(id), members); err != nil {
			return nil, err
		}
	}
	if out, err = sjson.SetRawBytes(out, "objects", objs); err != nil {
		return nil, err
	}

	if resp.Err != "" {
		if out, err = sjson.SetBytes(out, "error", resp.Err); err != nil {
			return nil, err
		}
	}

	if r.pretty {
		out = pretty.Pretty(out)
	}
	return out, nil
}

// encodeObject emits an object's members as an array of [key, value] pairs,
// preserving snapshot order.
func encodeObject(obj value.Object) ([]byte, error) {
	members := []byte(`[]`)
	for _, p := range obj.Members {
		k, err := encodeValue(p.Key)
		if err != nil {
			return nil, err
		}
		v, err := encodeValue(p.Val)
		if err != nil {
			return nil, err
		}
		pair := []byte(`[]`)
		if pair, err = sjson.SetRawBytes(pair, "-1", k); err != nil {
			return nil, err
		}
		if pair, err = sjson.SetRawBytes(pair, "-1", v); err != nil {
			return nil, err
		}
		if members, err = sjson.SetRawBytes(members, "-1", pair); err != nil {
			return nil, err
		}
	}
	return members, nil
}

func encodeValue(v value.Value) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "type", v.Kind.String())
	if err != nil {
		return nil, err
	}
	switch v.Kind {
	case value.KindBool:
		return sjson.SetBytes(out, "value", v.Bool)
	case value.KindNumber:
		return sjson.SetBytes(out, "value", v.Num)
	case value.KindString:
		return sjson.SetBytes(out, "value", v.Str)
	case value.KindObjectRef:
		return sjson.SetBytes(out, "id", v.Str)
	case value.KindOpaque:
		return sjson.SetBytes(out, "desc", v.Str)
	default:
		return out, nil
	}
}

// escapePath escapes sjson/gjson path syntax so a table identity can be
// used verbatim as an object key.
func escapePath(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
