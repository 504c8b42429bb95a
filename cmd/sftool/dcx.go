package main

import (
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"

	soulsformats "github.com/nex3/SoulsFormats"
)

var dcxCmd = &cli.Command{
	Name:  "dcx",
	Usage: "work with DCX compression containers",
	Subcommands: []*cli.Command{
		dcxUnpackCmd,
		dcxPackCmd,
	},
}

var dcxUnpackCmd = &cli.Command{
	Name:      "unpack",
	Usage:     "inflate a DCX container (pass - to read stdin)",
	ArgsUsage: "FILE",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "out", Value: "-", Usage: "where to? (stdout by default)"},
	},
	Action: func(ctx *cli.Context) error {
		fname := ctx.Args().Get(0)
		if fname == "" {
			return errors.New("dcx.unpack: need a file to read (- for stdin)")
		}
		raw, err := readInput(fname)
		if err != nil {
			return err
		}
		data, comp, err := soulsformats.DecompressBytes(raw)
		if err != nil {
			return errors.Wrap(err, "decompress")
		}
		level.Debug(log).Log("event", "dcx.unpack", "compression", comp,
			"in", len(raw), "out", len(data))
		return writeOutput(ctx.String("out"), data)
	},
}

var dcxPackCmd = &cli.Command{
	Name:      "pack",
	Usage:     "deflate a file into a DCX container (pass - to read stdin)",
	ArgsUsage: "FILE",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "out", Value: "-", Usage: "where to? (stdout by default)"},
		&cli.StringFlag{Name: "format", Value: soulsformats.DFLT10000_24_9.String(), Usage: "container variant to emit"},
	},
	Action: func(ctx *cli.Context) error {
		fname := ctx.Args().Get(0)
		if fname == "" {
			return errors.New("dcx.pack: need a file to read (- for stdin)")
		}
		comp, ok := parseCompression(ctx.String("format"))
		if !ok {
			return errors.Errorf("dcx.pack: unknown container variant %q", ctx.String("format"))
		}
		raw, err := readInput(fname)
		if err != nil {
			return err
		}
		packed, err := soulsformats.CompressBytes(raw, comp)
		if err != nil {
			return errors.Wrap(err, "compress")
		}
		level.Debug(log).Log("event", "dcx.pack", "compression", comp,
			"in", len(raw), "out", len(packed))
		return writeOutput(ctx.String("out"), packed)
	},
}

func parseCompression(s string) (soulsformats.Compression, bool) {
	variants := []soulsformats.Compression{
		soulsformats.DFLT10000_24_9,
		soulsformats.DFLT10000_44_9,
	}
	for _, c := range variants {
		if c.String() == s {
			return c, true
		}
	}
	return soulsformats.None, false
}
