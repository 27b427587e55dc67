package tests

import (
	"errors"
	"testing"

	cbor "github.com/synadia-labs/tinycbor/runtime"
)

// FuzzCBORSequences checks that parsing a sequence in small batches yields
// the same descriptors as parsing it at once.
func FuzzCBORSequences(f *testing.F) {
	f.Add(sequence(), uint8(3))
	f.Add([]byte{0x01, 0x9f, 0x01, 0xff, 0x02}, uint8(1))

	f.Fuzz(func(t *testing.T, data []byte, size uint8) {
		whole := make([]cbor.Item, 64)
		n, err := cbor.Parse(data, whole)
		if err != nil && !errors.Is(err, cbor.ErrBreak) {
			return
		}
		whole = whole[:n]

		p := cbor.NewParser(data)
		items := make([]cbor.Item, int(size%8)+1)
		var batched []cbor.Item
		for {
			n, err := p.Parse(items)
			batched = append(batched, items[:n]...)
			if !errors.Is(err, cbor.ErrOverrun) {
				break
			}
			if n == 0 {
				t.Fatalf("no progress at offset %d", p.Offset())
			}
		}
		if len(batched) != len(whole) {
			t.Fatalf("batched parse gave %d items, whole parse %d", len(batched), len(whole))
		}
		for i := range whole {
			if batched[i] != whole[i] {
				t.Fatalf("item %d: %+v vs %+v", i, batched[i], whole[i])
			}
		}
	})
}
