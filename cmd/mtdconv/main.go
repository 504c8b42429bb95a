// The mtdconv command converts MTD material definitions to and from JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	soulsformats "github.com/nex3/SoulsFormats"
	"github.com/nex3/SoulsFormats/mtd"
)

const usage = `usage: mtdconv [-r] [-dcx] [INPUT] [OUTPUT]

Reads an MTD file from INPUT, and writes it to OUTPUT as JSON. Compressed
input is inflated before decoding.

With -r, the direction is reversed: INPUT is JSON and OUTPUT is a binary MTD.
With -dcx, the binary output is additionally wrapped in a DCX container.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Errors are
written to stderr.
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	reverse := flag.Bool("r", false, "convert JSON back to a binary MTD")
	wrap := flag.Bool("dcx", false, "compress the binary output into a DCX container")
	flag.Usage = func() { fmt.Fprintf(flag.CommandLine.Output(), usage) }
	flag.Parse()

	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout
	args := flag.Args()
	if len(args) >= 1 && args[0] != "-" {
		in, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		input = in
		defer in.Close()
	}
	var outFile *os.File
	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer out.Close()
		output = out
		outFile = out
	}

	var err error
	if *reverse {
		err = toBinary(input, output, *wrap)
	} else {
		err = toJSON(input, output)
	}
	if err != nil {
		return err
	}
	if outFile != nil {
		return errors.Wrap(outFile.Sync(), "sync output")
	}
	return nil
}

func toJSON(input io.Reader, output io.Writer) error {
	raw, err := io.ReadAll(input)
	if err != nil {
		return errors.Wrap(err, "read input")
	}
	data, _, err := soulsformats.DecompressBytes(raw)
	if err != nil {
		return errors.Wrap(err, "decompress input")
	}
	doc, err := mtd.DecodeBytes(data)
	if err != nil {
		return errors.Wrap(err, "decode mtd")
	}
	enc := json.NewEncoder(output)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "\t")
	return errors.Wrap(enc.Encode(doc), "write json")
}

func toBinary(input io.Reader, output io.Writer, wrap bool) error {
	doc := mtd.New()
	if err := json.NewDecoder(input).Decode(doc); err != nil {
		return errors.Wrap(err, "decode json")
	}
	data, err := mtd.EncodeBytes(doc)
	if err != nil {
		return errors.Wrap(err, "encode mtd")
	}
	compression := soulsformats.None
	if wrap {
		compression = soulsformats.DFLT10000_24_9
	}
	packed, err := soulsformats.CompressBytes(data, compression)
	if err != nil {
		return errors.Wrap(err, "compress output")
	}
	_, err = output.Write(packed)
	return errors.Wrap(err, "write output")
}
