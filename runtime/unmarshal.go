package cbor

// HandlerFunc receives the value bound to a matched key. value points into
// the descriptor table and subtree holds value and all of its children.
type HandlerFunc func(msg []byte, value *Item, subtree []Item) error

// Handler binds a map key to a HandlerFunc. Key is a string, matched against
// byte and text string keys, or an integer (int, int64 or uint64), matched
// against integer keys.
type Handler struct {
	Key      any
	Run      HandlerFunc
	Required bool // Unmarshal fails with ErrKeyNotFound when the key is absent; honored for the first 64 handlers
}

// Unmarshal parses msg into items and dispatches the values of every map in
// it to the handler whose key matches. A value handed to a handler is not
// searched any further; everything else is, so maps nested in arrays or in
// values of unmatched keys are dispatched too. A handler runs once per
// matching pair.
//
// items is the descriptor storage; ErrOverrun is returned when it is too
// small for the whole message.
func Unmarshal(msg []byte, items []Item, handlers []Handler) error {
	n, err := Parse(msg, items)
	if err != nil && err != ErrBreak {
		return err
	}

	u := unmarshaler{table: items[:n], handlers: handlers}
	if _, err := Iterate(msg, u.table, nil, u.visit); err != nil {
		return err
	}

	for idx := range handlers {
		if handlers[idx].Required && idx < 64 && u.seen&(1<<idx) == 0 {
			return WrapError(ErrKeyNotFound, handlers[idx].Key)
		}
	}
	return nil
}

// unmarshaler follows Iterate through the table. Leaves arrive in table
// order, so a forward cursor finds the slot of each one, and a stack of the
// maps being walked tells keys from values.
type unmarshaler struct {
	table    []Item
	handlers []Handler

	cur  int // slot of the last leaf visited
	skip int // slots below skip belong to a value already dispatched
	maps []mapWalk
	seen uint64 // bit per handler
}

// mapWalk is the position reached among the children of one map.
type mapWalk struct {
	at, end int // slot of the map, and one past its subtree
	next    int // slot of the first child not yet accounted for
	child   int // ordinal of that child; even ordinals are keys
}

func (u *unmarshaler) visit(msg []byte, item, parent *Item) error {
	for &u.table[u.cur] != item {
		u.cur++
	}
	k := u.cur
	if k < u.skip || parent == nil || parent.Type != MapType {
		return nil
	}

	m := u.walking(parent, k)
	for m.next < k {
		m.next += Span(u.table[m.next:m.end])
		m.child++
	}
	if m.child%2 == 1 {
		return nil // a value whose key did not match
	}
	m.next, m.child = k+1, m.child+1

	idx := matchKey(msg, *item, u.handlers)
	if idx < 0 {
		return nil
	}
	if k+1 >= m.end || u.table[k+1].IsBreak() {
		return ErrIllegal
	}
	span := Span(u.table[k+1 : m.end])
	u.skip = k + 1 + span
	if idx < 64 {
		u.seen |= 1 << idx
	}
	if run := u.handlers[idx].Run; run != nil {
		if err := run(msg, &u.table[k+1], u.table[k+1:k+1+span]); err != nil {
			return WrapError(err, u.handlers[idx].Key)
		}
	}
	return nil
}

// walking returns the walk state of the map parent, whose child sits at slot
// k, dropping the maps that end before k.
func (u *unmarshaler) walking(parent *Item, k int) *mapWalk {
	for len(u.maps) > 0 && u.maps[len(u.maps)-1].end <= k {
		u.maps = u.maps[:len(u.maps)-1]
	}
	if top := len(u.maps) - 1; top >= 0 && &u.table[u.maps[top].at] == parent {
		return &u.maps[top]
	}
	at := k - 1
	for &u.table[at] != parent {
		at--
	}
	u.maps = append(u.maps, mapWalk{at: at, end: at + Span(u.table[at:]), next: at + 1})
	return &u.maps[len(u.maps)-1]
}

// matchKey returns the index of the first handler whose key equals the key
// item, or -1.
func matchKey(msg []byte, key Item, handlers []Handler) int {
	switch key.Type {
	case StringType:
		b, err := DecodeBytes(key, msg)
		if err != nil {
			return -1
		}
		for idx := range handlers {
			if s, ok := handlers[idx].Key.(string); ok && string(b) == s {
				return idx
			}
		}
	case IntegerType:
		mag, neg, err := integer(key, msg)
		if err != nil {
			return -1
		}
		for idx := range handlers {
			if intKeyEqual(handlers[idx].Key, mag, neg) {
				return idx
			}
		}
	}
	return -1
}

func intKeyEqual(k any, mag uint64, neg bool) bool {
	switch v := k.(type) {
	case int:
		return intKeyEqual(int64(v), mag, neg)
	case int64:
		if v < 0 {
			return neg && uint64(-1-v) == mag
		}
		return !neg && uint64(v) == mag
	case uint64:
		return !neg && v == mag
	default:
		return false
	}
}
