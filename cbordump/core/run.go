package core

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"
	"github.com/theory/jsonpath"

	cbor "github.com/synadia-labs/tinycbor/runtime"
)

// Format selects how dumped items are rendered.
type Format string

const (
	FormatTable   Format = "table"
	FormatDiag    Format = "diag"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// Options configures a dump.
type Options struct {
	Format Format
	// MaxItems caps the descriptor storage. Zero sizes it to the message
	// with Parser.Count. With a cap the message is parsed in batches that may
	// end inside a container.
	MaxItems int
	// MaxDepth is the nesting limit handed to the parser. It applies within
	// each batch.
	MaxDepth int
	// Query, if set, is a JSONPath expression applied to every top-level
	// item; only the selected nodes are rendered.
	Query string
	Log   *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Log != nil {
		return o.Log
	}
	return slog.Default()
}

// Dump parses msg and writes its items to w in the configured format.
//
// Items are parsed in batches of at most MaxItems descriptors. The table
// renders each batch as it comes. The other formats hold back a top-level
// item until its last descriptor has been parsed, and YAML and queries
// collect all values first.
func Dump(w io.Writer, msg []byte, opts Options) error {
	log := opts.logger()
	if opts.Format == "" {
		opts.Format = FormatTable
	}
	if opts.Query != "" && (opts.Format == FormatTable || opts.Format == FormatDiag) {
		return fmt.Errorf("--query needs json, yaml or msgpack output, not %s", opts.Format)
	}
	if cbor.IsLikelyJSON(msg) {
		log.Warn("input looks like JSON; use encode to convert it to CBOR")
	}

	var path *jsonpath.Path
	if opts.Query != "" {
		var err error
		if path, err = jsonpath.Parse(opts.Query); err != nil {
			return fmt.Errorf("parse query %q: %w", opts.Query, err)
		}
	}

	p := cbor.NewParser(msg)
	p.SetMaxDepth(opts.MaxDepth)

	size := opts.MaxItems
	if size <= 0 {
		n, err := p.Count()
		if err != nil {
			return fmt.Errorf("count items: %w", err)
		}
		size = max(n, 1)
	}
	log.Debug("parsing", "bytes", len(msg), "storage", size, "maxDepth", opts.MaxDepth)

	items := make([]cbor.Item, size)

	r := newRenderer(w, opts.Format)
	var (
		values  []any
		pending []cbor.Item // descriptors of top-level items not yet complete
	)
	for {
		start := p.Offset()
		n, err := p.Parse(items)
		switch {
		case err == nil, errors.Is(err, cbor.ErrBreak), errors.Is(err, cbor.ErrOverrun):
		default:
			return fmt.Errorf("parse: %w", err)
		}
		log.Debug("parsed batch", "offset", start, "items", n)

		batch, rest := items[:n], 0
		if opts.Format != FormatTable {
			pending = append(pending, batch...)
			rest = wholeItems(pending)
			batch = pending[:rest]
		}
		if path != nil || opts.Format == FormatYAML {
			vs, verr := cbor.ToValues(msg, batch)
			if verr != nil {
				return fmt.Errorf("convert: %w", verr)
			}
			values = append(values, vs...)
		} else if rerr := r.batch(msg, batch); rerr != nil {
			return rerr
		}
		if rest > 0 {
			pending = append(pending[:0], pending[rest:]...)
		}

		if !errors.Is(err, cbor.ErrOverrun) {
			break
		}
	}
	if len(pending) > 0 {
		return fmt.Errorf("parse: message ends inside the item at offset %d: %w", pending[0].Offset, cbor.ErrIllegal)
	}

	if path != nil {
		var nodes []any
		for _, v := range values {
			nodes = append(nodes, path.Select(plainJSON(v))...)
		}
		log.Debug("query selected", "query", opts.Query, "nodes", len(nodes))
		return r.values(nodes)
	}
	if opts.Format == FormatYAML {
		return r.values(values)
	}
	return r.flush()
}

// renderer writes batches of items, or plain value trees, to an output.
type renderer struct {
	w      io.Writer
	format Format
	table  *tableWriter
}

func newRenderer(w io.Writer, format Format) *renderer {
	r := &renderer{w: w, format: format}
	if format == FormatTable {
		r.table = newTableWriter(w)
	}
	return r
}

func (r *renderer) batch(msg []byte, items []cbor.Item) error {
	switch r.format {
	case FormatTable:
		return r.table.rows(msg, items)
	case FormatDiag:
		for i := 0; i < len(items); {
			n := cbor.Span(items[i:])
			d, err := cbor.Diag(msg, items[i:i+n])
			if err != nil {
				return fmt.Errorf("diag: %w", err)
			}
			if d != "" {
				if _, err := fmt.Fprintln(r.w, d); err != nil {
					return err
				}
			}
			i += n
		}
		return nil
	case FormatJSON:
		js, err := cbor.ToJSON(msg, items)
		if err != nil {
			return fmt.Errorf("json: %w", err)
		}
		if len(js) == 0 {
			return nil
		}
		_, err = r.w.Write(append(js, '\n'))
		return err
	case FormatMsgpack:
		vs, err := cbor.ToValues(msg, items)
		if err != nil {
			return fmt.Errorf("convert: %w", err)
		}
		return r.values(vs)
	}
	return fmt.Errorf("unknown format %q", r.format)
}

// values renders plain value trees, one document each.
func (r *renderer) values(vs []any) error {
	switch r.format {
	case FormatJSON:
		for _, v := range vs {
			js, err := json.Marshal(plainJSON(v))
			if err != nil {
				return fmt.Errorf("json: %w", err)
			}
			if _, err := r.w.Write(append(js, '\n')); err != nil {
				return err
			}
		}
		return nil
	case FormatYAML:
		for i, v := range vs {
			out, err := yaml.Marshal(plainYAML(v))
			if err != nil {
				return fmt.Errorf("yaml: %w", err)
			}
			if i > 0 {
				if _, err := io.WriteString(r.w, "---\n"); err != nil {
					return err
				}
			}
			if _, err := r.w.Write(out); err != nil {
				return err
			}
		}
		return nil
	case FormatMsgpack:
		var out []byte
		for _, v := range vs {
			var err error
			if out, err = AppendMsgpack(out, v); err != nil {
				return fmt.Errorf("msgpack: %w", err)
			}
		}
		_, err := r.w.Write(out)
		return err
	}
	return fmt.Errorf("format %q cannot render values", r.format)
}

func (r *renderer) flush() error {
	if r.table != nil {
		return r.table.flush()
	}
	return nil
}

// Encode converts a JSON document to CBOR and writes it to w, as hex text
// when asHex is set.
func Encode(w io.Writer, js []byte, asHex bool, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	if !cbor.IsLikelyJSON(js) {
		log.Warn("input does not look like JSON")
	}
	out, err := cbor.FromJSONBytes(js)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	log.Debug("encoded", "json", len(js), "cbor", len(out))
	if asHex {
		_, err = fmt.Fprintln(w, hex.EncodeToString(out))
		return err
	}
	_, err = w.Write(out)
	return err
}
