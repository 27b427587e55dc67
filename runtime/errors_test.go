package cbor

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want Status
		str  string
	}{
		{nil, Success, "success"},
		{ErrIllegal, Illegal, "illegal"},
		{OffsetError{Offset: 3, Err: ErrInvalid}, Invalid, "invalid"},
		{ErrOverrun, Overrun, "overrun"},
		{WrapError(ErrBreak, "x"), Break, "break"},
		{fmt.Errorf("parse: %w", OffsetError{Err: ErrExcessive}), Excessive, "excessive"},
		{errors.New("other"), Failure, "failure"},
	}
	for _, c := range cases {
		if got := StatusOf(c.err); got != c.want {
			t.Fatalf("StatusOf(%v): got %v want %v", c.err, got, c.want)
		}
		if c.want.String() != c.str {
			t.Fatalf("%d.String(): got %q want %q", c.want, c.want.String(), c.str)
		}
	}
}

func TestResumable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{ErrIllegal, false},
		{ErrInvalid, false},
		{ErrOverrun, true},
		{ErrBreak, true},
		{ErrExcessive, false},
		{OffsetError{Err: ErrOverrun}, true},
		{WrapError(ErrIllegal, "k"), false},
		{TypeError{Method: IntegerType, Encoded: StringType}, true},
		{&ErrUnsupportedType{T: reflect.TypeOf(0)}, true},
		{errors.New("plain"), false},
	}
	for _, c := range cases {
		if got := Resumable(c.err); got != c.want {
			t.Fatalf("Resumable(%v): got %v want %v", c.err, got, c.want)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{OffsetError{Offset: 7, Err: ErrIllegal}, "cbor: malformed item at offset 7"},
		{WrapError(ErrKeyNotFound, "cfg", 3), "cbor: key not found at cfg/3"},
		{TypeError{Method: IntegerType, Encoded: StringType}, "cbor: attempted to decode type \"string\" with method for \"integer\""},
		{&ErrUnsupportedType{}, "cbor: type \"<nil>\" not supported"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Fatalf("got %q want %q", got, c.want)
		}
	}

	wrapped := WrapError(OffsetError{Offset: 1, Err: ErrIllegal}, "a")
	if Cause(wrapped) != ErrIllegal {
		t.Fatalf("Cause: got %v", Cause(wrapped))
	}
	if WrapError(nil, "a") != nil {
		t.Fatalf("WrapError(nil) should be nil")
	}
}

func TestTypeStrings(t *testing.T) {
	want := map[Type]string{
		UnknownType: "unknown",
		IntegerType: "integer",
		StringType:  "string",
		ArrayType:   "array",
		MapType:     "map",
		FloatType:   "float",
		SimpleType:  "simple value",
	}
	for typ, s := range want {
		if typ.String() != s {
			t.Fatalf("%d: got %q want %q", typ, typ.String(), s)
		}
	}
	if LittleEndian.String() != "little-endian" || BigEndian.String() != "big-endian" {
		t.Fatalf("Endian strings wrong")
	}
}
