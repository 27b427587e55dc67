package cbor

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// FromJSONBytes converts one JSON document into CBOR bytes.
//
//   - null/bool/number/string/array/object map naturally to CBOR
//     null/bool/integer-or-float/text/array/map.
//   - integral numbers become integers; other numbers become the narrowest
//     float that holds them exactly.
//   - single-key wrapper objects are recognized:
//     {"$base64": string}  -> byte string (base64 std)
//     {"$base16": string}  -> byte string (hex)
//     {"$simple": number}  -> simple value
//     {"$undefined": true} -> undefined
func FromJSONBytes(js []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("cbor: trailing data after JSON document")
	}
	tree, err := fromJSONValue(v)
	if err != nil {
		return nil, err
	}
	return FromValue(nil, tree)
}

// fromJSONValue rewrites a decoded JSON document into the value tree
// FromValue accepts.
func fromJSONValue(v any) (any, error) {
	switch x := v.(type) {
	case json.Number:
		return jsonNumber(x)
	case []any:
		for i, e := range x {
			var err error
			if x[i], err = fromJSONValue(e); err != nil {
				return nil, err
			}
		}
		return x, nil
	case map[string]any:
		if out, ok, err := tryWrapper(x); ok || err != nil {
			return out, err
		}
		for k, e := range x {
			var err error
			if x[k], err = fromJSONValue(e); err != nil {
				return nil, WrapError(err, k)
			}
		}
		return x, nil
	default:
		return v, nil
	}
}

func jsonNumber(n json.Number) (any, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u, nil
		}
		if z, ok := new(big.Int).SetString(s, 10); ok {
			return z, nil
		}
	}
	return n.Float64()
}

func tryWrapper(m map[string]any) (any, bool, error) {
	if len(m) != 1 {
		return nil, false, nil
	}
	if v, ok := m["$base64"]; ok {
		s, _ := v.(string)
		bs, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, true, err
		}
		return bs, true, nil
	}
	if v, ok := m["$base16"]; ok {
		s, _ := v.(string)
		bs, err := hex.DecodeString(s)
		if err != nil {
			return nil, true, err
		}
		return bs, true, nil
	}
	if v, ok := m["$simple"]; ok {
		n, _ := v.(json.Number)
		u, err := strconv.ParseUint(string(n), 10, 8)
		if err != nil {
			return nil, true, errors.New("cbor: $simple expects an integer 0..255")
		}
		if u >= 24 && u < 32 {
			return nil, true, errors.New("cbor: $simple value is reserved")
		}
		return Simple(u), true, nil
	}
	if v, ok := m["$undefined"]; ok {
		if bval, _ := v.(bool); !bval {
			return nil, true, errors.New("cbor: $undefined expects true")
		}
		return Undefined{}, true, nil
	}
	return nil, false, nil
}
