package benchmarks

import (
	"errors"
	"testing"

	"github.com/maxatome/go-testdeep/td"
	msgp "github.com/tinylib/msgp/msgp"

	cbor "github.com/synadia-labs/tinycbor/runtime"
)

// TestData is the shared benchmark payload, encoded as a sequence of
// primitives so the CBOR runtime and tinylib/msgp walk the same shapes.
type TestData struct {
	Name    string           `cbor:"name"`
	Age     int64            `cbor:"age"`
	Email   string           `cbor:"email"`
	Active  bool             `cbor:"active"`
	Balance float64          `cbor:"balance"`
	Tags    []string         `cbor:"tags"`
	Scores  map[string]int64 `cbor:"scores"`
}

var sampleData = TestData{
	Name:    "Alice Johnson",
	Age:     30,
	Email:   "alice@example.com",
	Active:  true,
	Balance: 12345.67,
	Tags:    []string{"premium", "verified", "active"},
	Scores:  map[string]int64{"math": 95, "science": 88, "history": 92},
}

func encodeMsgpTestData(data TestData) []byte {
	var buf []byte
	buf = msgp.AppendString(buf, data.Name)
	buf = msgp.AppendInt64(buf, data.Age)
	buf = msgp.AppendString(buf, data.Email)
	buf = msgp.AppendBool(buf, data.Active)
	buf = msgp.AppendFloat64(buf, data.Balance)

	buf = msgp.AppendArrayHeader(buf, uint32(len(data.Tags)))
	for _, tag := range data.Tags {
		buf = msgp.AppendString(buf, tag)
	}

	buf = msgp.AppendMapHeader(buf, uint32(len(data.Scores)))
	for k, v := range data.Scores {
		buf = msgp.AppendString(buf, k)
		buf = msgp.AppendInt64(buf, v)
	}

	return buf
}

func encodeCBORTestData(data TestData) []byte {
	var buf []byte
	buf = cbor.AppendString(buf, data.Name)
	buf = cbor.AppendInt64(buf, data.Age)
	buf = cbor.AppendString(buf, data.Email)
	buf = cbor.AppendBool(buf, data.Active)
	buf = cbor.AppendFloat(buf, data.Balance)

	buf = cbor.AppendArrayHeader(buf, uint32(len(data.Tags)))
	for _, tag := range data.Tags {
		buf = cbor.AppendString(buf, tag)
	}

	buf = cbor.AppendMapHeader(buf, uint32(len(data.Scores)))
	for k, v := range data.Scores {
		buf = cbor.AppendString(buf, k)
		buf = cbor.AppendInt64(buf, v)
	}

	return buf
}

func decodeMsgpTestData(b []byte, out *TestData) error {
	buf := b
	var err error

	// Scalars
	if out.Name, buf, err = msgp.ReadStringBytes(buf); err != nil {
		return err
	}
	if out.Age, buf, err = msgp.ReadInt64Bytes(buf); err != nil {
		return err
	}
	if out.Email, buf, err = msgp.ReadStringBytes(buf); err != nil {
		return err
	}
	if out.Active, buf, err = msgp.ReadBoolBytes(buf); err != nil {
		return err
	}
	if out.Balance, buf, err = msgp.ReadFloat64Bytes(buf); err != nil {
		return err
	}

	// Tags array
	var arrSize uint32
	if arrSize, buf, err = msgp.ReadArrayHeaderBytes(buf); err != nil {
		return err
	}
	out.Tags = out.Tags[:0]
	for j := uint32(0); j < arrSize; j++ {
		var s string
		if s, buf, err = msgp.ReadStringBytes(buf); err != nil {
			return err
		}
		out.Tags = append(out.Tags, s)
	}

	// Scores map
	var mapSize uint32
	if mapSize, buf, err = msgp.ReadMapHeaderBytes(buf); err != nil {
		return err
	}
	if out.Scores == nil {
		out.Scores = make(map[string]int64, mapSize)
	}
	for j := uint32(0); j < mapSize; j++ {
		var k string
		var v int64
		if k, buf, err = msgp.ReadStringBytes(buf); err != nil {
			return err
		}
		if v, buf, err = msgp.ReadInt64Bytes(buf); err != nil {
			return err
		}
		out.Scores[k] = v
	}

	return nil
}

// decodeCBORTestData parses b into items, then reads each field from its
// descriptor. Strings share memory with b.
func decodeCBORTestData(b []byte, items []cbor.Item, out *TestData) error {
	n, err := cbor.Parse(b, items)
	if err != nil {
		return err
	}
	items = items[:n]
	if n < 7 {
		return cbor.ErrIllegal
	}

	// Scalars
	if out.Name, err = cbor.DecodeString(items[0], b); err != nil {
		return err
	}
	if out.Age, err = cbor.DecodeInt64(items[1], b); err != nil {
		return err
	}
	if out.Email, err = cbor.DecodeString(items[2], b); err != nil {
		return err
	}
	if out.Active, err = cbor.DecodeBool(items[3], b); err != nil {
		return err
	}
	if out.Balance, err = cbor.DecodeFloat64(items[4], b); err != nil {
		return err
	}

	// Tags array
	i := 5
	if items[i].Type != cbor.ArrayType {
		return cbor.TypeError{Method: cbor.ArrayType, Encoded: items[i].Type}
	}
	tags := items[i].Len()
	i++
	out.Tags = out.Tags[:0]
	for j := 0; j < tags && i < n; j, i = j+1, i+1 {
		s, err := cbor.DecodeString(items[i], b)
		if err != nil {
			return err
		}
		out.Tags = append(out.Tags, s)
	}

	// Scores map
	if i >= n || items[i].Type != cbor.MapType {
		return errors.New("scores map missing")
	}
	pairs := items[i].Len()
	i++
	if out.Scores == nil {
		out.Scores = make(map[string]int64, pairs)
	}
	for j := 0; j < pairs && i+1 < n; j, i = j+1, i+2 {
		k, err := cbor.DecodeString(items[i], b)
		if err != nil {
			return err
		}
		v, err := cbor.DecodeInt64(items[i+1], b)
		if err != nil {
			return err
		}
		out.Scores[k] = v
	}
	return nil
}

func TestTestDataPrimitivePathsParity(t *testing.T) {
	cases := []struct {
		name string
		enc  func(TestData) []byte
		dec  func([]byte, *TestData) error
	}{
		{"msgp", encodeMsgpTestData, decodeMsgpTestData},
		{"cbor", encodeCBORTestData, func(b []byte, out *TestData) error {
			return decodeCBORTestData(b, make([]cbor.Item, 32), out)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.enc(sampleData)
			if len(b) == 0 {
				t.Fatalf("%s: empty encoding", tc.name)
			}
			var got TestData
			if err := tc.dec(b, &got); err != nil {
				t.Fatalf("%s: decode err: %v", tc.name, err)
			}
			td.Cmp(t, got, sampleData)
		})
	}
}
