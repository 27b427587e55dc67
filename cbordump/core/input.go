package core

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	cbor "github.com/synadia-labs/tinycbor/runtime"
)

// ReadInput loads the whole input named by path, or stdin for "-" or "".
// See Load for hexText.
func ReadInput(path string, hexText bool) ([]byte, error) {
	if path == "" || path == "-" {
		return Load(os.Stdin, hexText)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return Load(f, hexText)
}

// Load buffers r until EOF. With hexText set the input is hex digits,
// possibly split by whitespace, and the decoded bytes are returned.
func Load(r io.Reader, hexText bool) ([]byte, error) {
	bb := cbor.GetByteBuffer()
	defer cbor.PutByteBuffer(bb)
	if _, err := bb.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if hexText {
		digits := strings.Join(strings.Fields(string(bb.Bytes())), "")
		out, err := hex.DecodeString(digits)
		if err != nil {
			return nil, fmt.Errorf("decode hex input: %w", err)
		}
		return out, nil
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, nil
}
