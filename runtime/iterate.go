package cbor

// IterateFunc is called by Iterate for every leaf item. parent is the
// enclosing array, map or indefinite string, or nil at the top level.
type IterateFunc func(msg []byte, item, parent *Item) error

// Iterate walks items depth first and calls fn for each leaf. When parent is
// non-nil, items holds its children: a definite parent bounds the walk by its
// Size, an indefinite one by its break marker. With a nil parent the walk
// covers all of items.
//
// Arrays, maps and indefinite strings are not passed to fn; their children
// are, with the container as parent. A break marker closes the indefinite
// container it belongs to; at the top level it closes nothing and the walk
// steps over it. Break markers are never passed to fn.
//
// Iterate returns the number of slots consumed, including nested children
// and break markers, so callers can step over a subtree. An error from fn
// stops the walk and is returned as is.
func Iterate(msg []byte, items []Item, parent *Item, fn IterateFunc) (int, error) {
	limit := -1
	if parent != nil && parent.Size >= 0 {
		limit = parent.Size
	}

	i := 0
	for n := 0; i < len(items) && (limit < 0 || n < limit); n++ {
		it := &items[i]
		if hasChildren(it) {
			consumed, err := Iterate(msg, items[i+1:], it, fn)
			i += 1 + consumed
			if err != nil {
				return i, err
			}
			continue
		}
		if err := Decode(*it, msg, nil); err == ErrBreak {
			if parent != nil {
				return i + 1, nil
			}
			i++
			continue
		}
		if err := fn(msg, it, parent); err != nil {
			return i, err
		}
		i++
	}
	return i, nil
}

// Span returns the number of slots taken by the item at items[0] together
// with all of its children, and its break marker when it is indefinite.
func Span(items []Item) int {
	if len(items) == 0 {
		return 0
	}
	it := &items[0]
	if !hasChildren(it) {
		return 1
	}
	n := 1
	if it.Size == IndefiniteSize {
		for n < len(items) {
			if items[n].IsBreak() {
				return n + 1
			}
			n += Span(items[n:])
		}
		return n
	}
	for c := 0; c < it.Size && n < len(items); c++ {
		n += Span(items[n:])
	}
	return n
}

// hasChildren reports whether it is followed by child items in a table.
func hasChildren(it *Item) bool {
	return it.IsContainer() || (it.Type == StringType && it.Size == IndefiniteSize)
}
