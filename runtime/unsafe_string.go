package cbor

import "unsafe"

// UnsafeString returns a string that shares the same underlying
// memory as b. The caller must not modify b while the string is in use;
// descriptor accessors rely on msg being immutable after Parse.
func UnsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
