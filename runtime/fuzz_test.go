package cbor

import (
	"errors"
	"testing"
)

// FuzzParse checks that parsing, decoding and rendering never panic and that
// well-formed input keeps every descriptor inside the message.
func FuzzParse(f *testing.F) {
	for _, c := range diagCases {
		f.Add(mustHex(f, c.hex))
	}
	f.Add(mustHex(f, "818181818181818180"))
	f.Add(mustHex(f, "5f41006161ff"))

	f.Fuzz(func(t *testing.T, data []byte) {
		count, cerr := ItemCount(data)

		items := make([]Item, 32)
		n, err := Parse(data, items)
		if err != nil && !errors.Is(err, ErrBreak) && !errors.Is(err, ErrOverrun) {
			if cerr == nil {
				t.Fatalf("ItemCount accepted input Parse rejected: %v", err)
			}
			return
		}
		if err == nil && n != count {
			t.Fatalf("ItemCount %d != Parse %d", count, n)
		}
		items = items[:n]

		buf := make([]byte, 16)
		for _, it := range items {
			if it.Offset < 0 || it.Offset > len(data) {
				t.Fatalf("offset %d outside message of %d bytes", it.Offset, len(data))
			}
			if it.Type == StringType && it.Size >= 0 && it.Offset+it.Size > len(data) {
				t.Fatalf("string runs past the message")
			}
			_ = Decode(it, data, buf)
			_ = (Decoder{Order: BigEndian}).Decode(it, data, buf)
		}
		if errors.Is(err, ErrOverrun) {
			return
		}

		_, _ = Diag(data, items)
		_, _ = ToJSON(data, items)
		if vs, verr := ToValues(data, items); verr == nil {
			for _, v := range vs {
				if _, err := FromValue(nil, v); err != nil {
					t.Fatalf("FromValue rejected a decoded value %#v: %v", v, err)
				}
			}
		}
		_, _ = Iterate(data, items, nil, func([]byte, *Item, *Item) error { return nil })
	})
}
