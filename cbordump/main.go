package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/synadia-labs/tinycbor/cbordump/core"
)

// CLI defines the cbordump command-line interface.
//
//   - dump: parse a CBOR message and print its items
//   - encode: turn a JSON document into CBOR
//
// Diagnostics go to stderr; --verbose adds debug logging.
type CLI struct {
	Verbose bool `short:"v" help:"Enable verbose diagnostics"`

	Dump   DumpCmd   `cmd:"" help:"Parse a CBOR message and print its items."`
	Encode EncodeCmd `cmd:"" help:"Encode a JSON document as CBOR."`
}

// DumpCmd is the dump subcommand.
type DumpCmd struct {
	Input    string `short:"i" help:"Input file, or - for stdin" default:"-"`
	Hex      bool   `help:"Input is hex text (whitespace ignored)"`
	MaxItems int    `help:"Descriptor storage size; 0 sizes it to the message" default:"0"`
	MaxDepth int    `help:"Maximum nesting of arrays, maps and indefinite strings" default:"8"`
	Format   string `short:"f" help:"Output format" enum:"table,diag,json,yaml,msgpack" default:"table"`
	Query    string `short:"q" help:"JSONPath expression selecting what to print (json, yaml and msgpack output)"`
}

// Run dumps the input to stdout.
func (c *DumpCmd) Run(log *slog.Logger) error {
	msg, err := core.ReadInput(c.Input, c.Hex)
	if err != nil {
		return err
	}
	return core.Dump(os.Stdout, msg, core.Options{
		Format:   core.Format(c.Format),
		MaxItems: c.MaxItems,
		MaxDepth: c.MaxDepth,
		Query:    c.Query,
		Log:      log,
	})
}

// EncodeCmd is the encode subcommand.
type EncodeCmd struct {
	Input string `short:"i" help:"Input JSON file, or - for stdin" default:"-"`
	Hex   bool   `help:"Write hex text instead of binary CBOR"`
}

// Run encodes the input to stdout.
func (c *EncodeCmd) Run(log *slog.Logger) error {
	js, err := core.ReadInput(c.Input, false)
	if err != nil {
		return err
	}
	return core.Encode(os.Stdout, js, c.Hex, log)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cbordump"),
		kong.Description("Inspect CBOR messages and convert JSON to CBOR."),
	)

	if err := ctx.Run(newLogger(cli.Verbose)); err != nil {
		ctx.FatalIfErrorf(err)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
