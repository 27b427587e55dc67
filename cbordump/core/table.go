package core

import (
	"fmt"
	"io"
	"text/tabwriter"

	cbor "github.com/synadia-labs/tinycbor/runtime"
)

// tableWriter prints one row per descriptor. It keeps the nesting state
// between batches, so a message parsed in several batches reads as one
// table.
type tableWriter struct {
	tw    *tabwriter.Writer
	index int
	// open holds the children still expected by each enclosing container,
	// or cbor.IndefiniteSize while waiting for a break.
	open []int
}

func newTableWriter(w io.Writer) *tableWriter {
	t := &tableWriter{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
	fmt.Fprintln(t.tw, "INDEX\tOFFSET\tDEPTH\tTYPE\tSIZE\tVALUE")
	return t
}

func (t *tableWriter) rows(msg []byte, items []cbor.Item) error {
	for i := range items {
		it := items[i]
		value, err := cellValue(msg, it)
		if err != nil {
			return fmt.Errorf("item %d: %w", t.index, err)
		}
		if _, err := fmt.Fprintf(t.tw, "%d\t%d\t%d\t%s\t%s\t%s\n",
			t.index, it.Offset, len(t.open), it.Type, sizeText(it), value); err != nil {
			return err
		}
		t.index++

		switch {
		case it.IsBreak():
			if n := len(t.open); n > 0 && t.open[n-1] == cbor.IndefiniteSize {
				t.open = t.open[:n-1]
				t.done()
			}
		case it.Size == cbor.IndefiniteSize, (it.IsContainer() && it.Size > 0):
			t.open = append(t.open, it.Size)
		default:
			t.done()
		}
	}
	return nil
}

// done records that a child of the innermost container is complete,
// closing every definite container it finishes.
func (t *tableWriter) done() {
	for n := len(t.open); n > 0; n = len(t.open) {
		if t.open[n-1] == cbor.IndefiniteSize {
			return
		}
		t.open[n-1]--
		if t.open[n-1] > 0 {
			return
		}
		t.open = t.open[:n-1]
	}
}

// flush writes out the aligned rows. A container still open at this point
// was cut short by the end of the message.
func (t *tableWriter) flush() error {
	if err := t.tw.Flush(); err != nil {
		return err
	}
	if len(t.open) > 0 {
		return fmt.Errorf("parse: message ends inside %d open containers: %w", len(t.open), cbor.ErrIllegal)
	}
	return nil
}

func sizeText(it cbor.Item) string {
	switch it.Size {
	case cbor.IndefiniteSize:
		return "_"
	case cbor.BreakSize:
		return "-"
	}
	return fmt.Sprint(it.Size)
}

// cellValue is the diagnostic notation of a leaf; containers and
// indefinite strings show their children in later rows instead.
func cellValue(msg []byte, it cbor.Item) (string, error) {
	switch {
	case it.IsBreak():
		return "break", nil
	case it.IsContainer(), it.Type == cbor.StringType && it.Size == cbor.IndefiniteSize:
		return "", nil
	}
	return cbor.Diag(msg, []cbor.Item{it})
}

// wholeItems returns how many leading slots of items hold complete top-level
// items. A batch from a resumed parse can stop inside a container.
func wholeItems(items []cbor.Item) int {
	n := 0
	for n < len(items) {
		span, ok := subtree(items[n:])
		if !ok {
			break
		}
		n += span
	}
	return n
}

// subtree is cbor.Span that also reports whether items holds the whole
// subtree rooted at items[0].
func subtree(items []cbor.Item) (int, bool) {
	it := &items[0]
	if !it.IsContainer() && !(it.Type == cbor.StringType && it.IsIndefinite()) {
		return 1, true
	}
	n := 1
	for c := 0; it.IsIndefinite() || c < it.Size; c++ {
		if n >= len(items) {
			return n, false
		}
		if it.IsIndefinite() && items[n].IsBreak() {
			return n + 1, true
		}
		k, ok := subtree(items[n:])
		n += k
		if !ok {
			return n, false
		}
	}
	return n, true
}
