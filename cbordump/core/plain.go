package core

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"slices"

	"github.com/tinylib/msgp/msgp"

	cbor "github.com/synadia-labs/tinycbor/runtime"
)

// plainer turns a cbor.ToValue tree into one made only of the types a
// generic encoder understands: nil, bool, uint64, int64, float64, string,
// []byte, []any and map[string]any.
type plainer struct {
	// keepBytes leaves []byte alone instead of writing base64 text.
	keepBytes bool
	// keepNonFinite leaves NaN and infinities alone instead of nil.
	keepNonFinite bool
}

// plainJSON is the tree JSON encoders and JSONPath queries accept. It
// matches cbor.ToJSON except that integers below math.MinInt64 become
// decimal strings.
func plainJSON(v any) any { return plainer{}.value(v) }

func plainYAML(v any) any { return plainer{keepNonFinite: true}.value(v) }

func (p plainer) value(v any) any {
	switch v := v.(type) {
	case []byte:
		if p.keepBytes {
			return v
		}
		return base64.StdEncoding.EncodeToString(v)
	case float64:
		if !p.keepNonFinite && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return nil
		}
		return v
	case *big.Int:
		return v.String()
	case cbor.Undefined, cbor.Simple:
		return nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = p.value(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = p.value(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[keyText(k)] = p.value(e)
		}
		return out
	}
	return v
}

// keyText names a map key the way cbor.ToJSON does: text keys as they are,
// anything else in diagnostic notation.
func keyText(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	enc, err := cbor.FromValue(nil, k)
	if err != nil {
		return fmt.Sprint(k)
	}
	n, err := cbor.ItemCount(enc)
	if err != nil {
		return fmt.Sprint(k)
	}
	items := make([]cbor.Item, n)
	if _, err := cbor.Parse(enc, items); err != nil {
		return fmt.Sprint(k)
	}
	d, err := cbor.Diag(enc, items)
	if err != nil {
		return fmt.Sprint(k)
	}
	return d
}

// AppendMsgpack appends v, a cbor.ToValue tree, to b as MessagePack. Byte
// strings stay binary and floats keep NaN and infinities. Undefined and
// other simple values become nil, and map keys are written in sorted order.
func AppendMsgpack(b []byte, v any) ([]byte, error) {
	return appendPlainMsgpack(b, plainer{keepBytes: true, keepNonFinite: true}.value(v))
}

func appendPlainMsgpack(b []byte, v any) ([]byte, error) {
	switch v := v.(type) {
	case nil:
		return msgp.AppendNil(b), nil
	case bool:
		return msgp.AppendBool(b, v), nil
	case uint64:
		return msgp.AppendUint64(b, v), nil
	case int64:
		return msgp.AppendInt64(b, v), nil
	case float64:
		if f := float32(v); float64(f) == v {
			return msgp.AppendFloat32(b, f), nil
		}
		return msgp.AppendFloat64(b, v), nil
	case string:
		return msgp.AppendString(b, v), nil
	case []byte:
		return msgp.AppendBytes(b, v), nil
	case []any:
		b = msgp.AppendArrayHeader(b, uint32(len(v)))
		for _, e := range v {
			var err error
			if b, err = appendPlainMsgpack(b, e); err != nil {
				return b, err
			}
		}
		return b, nil
	case map[string]any:
		b = msgp.AppendMapHeader(b, uint32(len(v)))
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			b = msgp.AppendString(b, k)
			var err error
			if b, err = appendPlainMsgpack(b, v[k]); err != nil {
				return b, err
			}
		}
		return b, nil
	}
	return msgp.AppendIntf(b, v)
}
