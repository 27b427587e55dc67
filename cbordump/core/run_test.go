package core

import (
	"bytes"
	"encoding/hex"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/maxatome/go-testdeep/td"

	cbor "github.com/synadia-labs/tinycbor/runtime"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func dump(t *testing.T, hexMsg string, opts Options) string {
	t.Helper()
	if opts.Log == nil {
		opts.Log = quiet()
	}
	var out bytes.Buffer
	if err := Dump(&out, mustHex(t, hexMsg), opts); err != nil {
		t.Fatalf("Dump(%s): %v", hexMsg, err)
	}
	return out.String()
}

// rows splits table output into whitespace-normalized lines.
func rows(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		out = append(out, strings.Join(strings.Fields(line), " "))
	}
	return out
}

func TestDumpTable(t *testing.T) {
	got := rows(dump(t, "8301820203820405", Options{Format: FormatTable}))
	td.Cmp(t, got, []string{
		"INDEX OFFSET DEPTH TYPE SIZE VALUE",
		"0 1 0 array 3",
		"1 2 1 integer 0 1",
		"2 3 1 array 2",
		"3 4 2 integer 0 2",
		"4 5 2 integer 0 3",
		"5 6 1 array 2",
		"6 7 2 integer 0 4",
		"7 8 2 integer 0 5",
	})
}

func TestDumpTableInBatches(t *testing.T) {
	got := rows(dump(t, "9f01ff02", Options{Format: FormatTable, MaxItems: 3}))
	td.Cmp(t, got, []string{
		"INDEX OFFSET DEPTH TYPE SIZE VALUE",
		"0 1 0 array _",
		"1 2 1 integer 0 1",
		"2 3 1 float - break",
		"3 4 0 integer 0 2",
	})
}

func TestDumpSmallStorage(t *testing.T) {
	for _, format := range []Format{FormatTable, FormatDiag, FormatJSON, FormatYAML, FormatMsgpack} {
		for _, h := range []string{"8301820203820405", "9f01a161619f0203ffff", "0182f5f6"} {
			whole := dump(t, h, Options{Format: format})
			for size := 1; size <= 3; size++ {
				if got := dump(t, h, Options{Format: format, MaxItems: size}); got != whole {
					t.Fatalf("%s %s with %d descriptors: got %q want %q", format, h, size, got, whole)
				}
			}
		}
	}
}

func TestDumpTruncatedInBatches(t *testing.T) {
	for _, format := range []Format{FormatTable, FormatJSON} {
		err := Dump(io.Discard, mustHex(t, "8201"), Options{Format: format, MaxItems: 1, Log: quiet()})
		if cbor.StatusOf(err) != cbor.Illegal {
			t.Fatalf("%s: expected an illegal message, got %v", format, err)
		}
	}
}

func TestDumpDepthLimit(t *testing.T) {
	msg := mustHex(t, "818101")
	err := Dump(io.Discard, msg, Options{MaxDepth: 1, Log: quiet()})
	if cbor.StatusOf(err) != cbor.Excessive {
		t.Fatalf("expected excessive nesting, got %v", err)
	}
	if err := Dump(io.Discard, msg, Options{MaxDepth: 2, Log: quiet()}); err != nil {
		t.Fatalf("depth 2: %v", err)
	}
}

func TestDumpFormats(t *testing.T) {
	cases := []struct {
		name string
		hex  string
		opts Options
		want string
	}{
		{"diag", "0182f5f6", Options{Format: FormatDiag}, "1\n[true, null]\n"},
		{"diag-batches", "0182f5f6", Options{Format: FormatDiag, MaxItems: 3}, "1\n[true, null]\n"},
		{"json", "a26161016162820203", Options{Format: FormatJSON}, "{\"a\":1,\"b\":[2,3]}\n"},
		{"json-sequence", "0102", Options{Format: FormatJSON, MaxItems: 1}, "1\n2\n"},
		{"query", "a26161016162820203", Options{Format: FormatJSON, Query: "$.b[1]"}, "3\n"},
		{"query-each-item", "a1616101a1616102", Options{Format: FormatJSON, Query: "$.a"}, "1\n2\n"},
		{"query-bytes", "a1616142beef", Options{Format: FormatJSON, Query: "$.a"}, "\"vu8=\"\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := dump(t, c.hex, c.opts); got != c.want {
				t.Fatalf("got %q want %q", got, c.want)
			}
		})
	}
}

func TestDumpYAML(t *testing.T) {
	out := dump(t, "a26161016162820203", Options{Format: FormatYAML})
	var doc struct {
		A int   `yaml:"a"`
		B []int `yaml:"b"`
	}
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal(%q): %v", out, err)
	}
	if doc.A != 1 || len(doc.B) != 2 || doc.B[1] != 3 {
		t.Fatalf("unexpected document %+v from %q", doc, out)
	}

	out = dump(t, "0102", Options{Format: FormatYAML})
	if strings.Count(out, "---\n") != 1 {
		t.Fatalf("expected two documents, got %q", out)
	}
}

func TestDumpMsgpack(t *testing.T) {
	cases := []struct {
		hex  string
		want string
	}{
		{"a26161016162820203", "82a16101a1629202" + "03"},
		{"420102", "c4020102"},
		{"f93e00", "ca3fc00000"},
		{"fb3ff199999999999a", "cb3ff199999999999a"},
		{"3903e7", "d1fc18"},
		{"83f5f7f6", "93c3c0c0"},
		{"a10102", "81a13102"},
	}
	for _, c := range cases {
		got := dump(t, c.hex, Options{Format: FormatMsgpack})
		if h := hex.EncodeToString([]byte(got)); h != c.want {
			t.Fatalf("%s: got %s want %s", c.hex, h, c.want)
		}
	}
}

func TestDumpRejects(t *testing.T) {
	cases := []struct {
		hex  string
		opts Options
	}{
		{"01", Options{Format: FormatTable, Query: "$"}},
		{"01", Options{Format: FormatJSON, Query: "$["}},
		{"c100", Options{}},
		{"8201", Options{}},
	}
	for _, c := range cases {
		c.opts.Log = quiet()
		if err := Dump(io.Discard, mustHex(t, c.hex), c.opts); err == nil {
			t.Fatalf("%s %+v: expected an error", c.hex, c.opts)
		}
	}
}

func TestDumpWarnsOnJSON(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	if err := Dump(io.Discard, []byte("1"), Options{Log: log}); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(logs.String(), "looks like JSON") {
		t.Fatalf("expected a warning, got %q", logs.String())
	}
}

func TestEncode(t *testing.T) {
	var out bytes.Buffer
	if err := Encode(&out, []byte(`{"a":[1,1.5]}`), true, quiet()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := out.String(); got != "a161618201f93e00\n" {
		t.Fatalf("got %q", got)
	}

	out.Reset()
	if err := Encode(&out, []byte(`[true]`), false, quiet()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out.Bytes(), []byte{0x81, 0xf5}) {
		t.Fatalf("got %x", out.Bytes())
	}

	if err := Encode(&out, []byte(`{"a":`), false, quiet()); err == nil {
		t.Fatalf("expected an error for truncated JSON")
	}
}

func TestLoad(t *testing.T) {
	got, err := Load(strings.NewReader("a2 01\n02 0304\n"), true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	td.Cmp(t, got, []byte{0xa2, 0x01, 0x02, 0x03, 0x04})

	got, err = Load(bytes.NewReader([]byte{0xf5, 0x20}), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	td.Cmp(t, got, []byte{0xf5, 0x20})

	if _, err := Load(strings.NewReader("zz"), true); err == nil {
		t.Fatalf("expected a hex error")
	}
}

func TestKeyText(t *testing.T) {
	cases := []struct {
		key  any
		want string
	}{
		{"k", "k"},
		{uint64(1), "1"},
		{int64(-2), "-2"},
		{true, "true"},
		{cbor.Undefined{}, "undefined"},
	}
	for _, c := range cases {
		if got := keyText(c.key); got != c.want {
			t.Fatalf("keyText(%#v) = %q want %q", c.key, got, c.want)
		}
	}
}
