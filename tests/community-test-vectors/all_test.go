package tests

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	cbor "github.com/synadia-labs/tinycbor/runtime"
)

// readFileTrim reads a text file and trims trailing newlines.
func readFileTrim(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

// parseWhole parses msg into exactly-sized storage.
func parseWhole(msg []byte) ([]cbor.Item, error) {
	n, err := cbor.ItemCount(msg)
	if err != nil {
		return nil, err
	}
	items := make([]cbor.Item, n)
	got, err := cbor.Parse(msg, items)
	if err != nil && !errors.Is(err, cbor.ErrBreak) {
		return nil, err
	}
	return items[:got], nil
}

// tagged reports whether a vector uses tags, which the parser rejects as
// invalid rather than malformed.
func tagged(msg []byte) bool {
	_, err := cbor.ItemCount(msg)
	return errors.Is(err, cbor.ErrInvalid)
}

// TestCommunityVectors checks the parser against the public CBOR
// community test vectors: *.cbor files with optional *.diag companions, or
// appendix_a.json when no .cbor files are present.
func TestCommunityVectors(t *testing.T) {
	root := "."
	st, err := os.Stat(root)
	if err != nil || !st.IsDir() {
		t.Fatalf("community vectors not present in %s", root)
	}

	var cases int
	walkFn := func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".cbor") {
			return nil
		}
		cases++
		caseName := strings.TrimPrefix(path, root+string(filepath.Separator))
		t.Run(caseName, func(t *testing.T) {
			b, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read %s: %v", path, err)
			}
			if tagged(b) {
				t.Skip("tagged vector")
			}
			items, err := parseWhole(b)
			if err != nil {
				t.Fatalf("parse %s: %v", path, err)
			}
			diagPath := strings.TrimSuffix(path, ".cbor") + ".diag"
			if _, err := os.Stat(diagPath); err != nil {
				return
			}
			got, err := cbor.Diag(b, items)
			if err != nil {
				t.Fatalf("Diag error for %s: %v", path, err)
			}
			want, err := readFileTrim(diagPath)
			if err != nil {
				t.Fatalf("read diag %s: %v", diagPath, err)
			}
			if got != want {
				t.Fatalf("diag mismatch for %s:\n got: %q\nwant: %q", path, got, want)
			}
		})
		return nil
	}
	_ = filepath.Walk(root, walkFn)
	if cases > 0 {
		return
	}

	// Fallback: appendix_a.json at the root of the community vectors
	b, err := os.ReadFile(filepath.Join(root, "appendix_a.json"))
	if err != nil {
		t.Skip("no .cbor files found and appendix_a.json missing")
	}
	var vects []struct {
		Hex        string `json:"hex"`
		Diagnostic string `json:"diagnostic"`
		Roundtrip  bool   `json:"roundtrip"`
	}
	if err := json.Unmarshal(b, &vects); err != nil {
		t.Fatalf("parse appendix_a.json: %v", err)
	}
	if len(vects) == 0 {
		t.Skip("no vectors in appendix_a.json")
	}
	for i, v := range vects {
		if v.Hex == "" {
			continue
		}
		t.Run("appendix_a_"+strconv.Itoa(i), func(t *testing.T) {
			msg, err := hex.DecodeString(v.Hex)
			if err != nil {
				t.Fatalf("bad hex: %v", err)
			}
			if tagged(msg) {
				t.Skip("tagged vector")
			}
			items, err := parseWhole(msg)
			if err != nil {
				t.Fatalf("parse %s: %v", v.Hex, err)
			}
			if v.Diagnostic != "" {
				got, err := cbor.Diag(msg, items)
				if err != nil {
					t.Fatalf("diag error: %v", err)
				}
				if got != v.Diagnostic {
					t.Fatalf("diag mismatch: got %q want %q (hex %s)", got, v.Diagnostic, v.Hex)
				}
			}
		})
	}
}
