package main

import (
	"encoding/json"
	"os"

	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"

	soulsformats "github.com/nex3/SoulsFormats"
	"github.com/nex3/SoulsFormats/mtd"
)

var mtdCmd = &cli.Command{
	Name:  "mtd",
	Usage: "work with MTD material definitions",
	Subcommands: []*cli.Command{
		mtdJSONCmd,
	},
}

var mtdJSONCmd = &cli.Command{
	Name:      "json",
	Usage:     "print a material definition as JSON (pass - to read stdin)",
	ArgsUsage: "FILE",
	Action: func(ctx *cli.Context) error {
		fname := ctx.Args().Get(0)
		if fname == "" {
			return errors.New("mtd.json: need a file to read (- for stdin)")
		}
		raw, err := readInput(fname)
		if err != nil {
			return err
		}
		data, comp, err := soulsformats.DecompressBytes(raw)
		if err != nil {
			return errors.Wrap(err, "decompress")
		}
		if comp != soulsformats.None {
			level.Debug(log).Log("event", "inflated", "compression", comp, "bytes", len(data))
		}
		doc, err := mtd.DecodeBytes(data)
		if err != nil {
			return errors.Wrap(err, "decode")
		}
		level.Debug(log).Log("event", "mtd.json", "shader", doc.ShaderPath,
			"params", len(doc.Params), "textures", len(doc.Textures))
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "\t")
		return enc.Encode(doc)
	},
}
