package main

import (
	"bytes"
	"os"

	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"

	soulsformats "github.com/nex3/SoulsFormats"
	"github.com/nex3/SoulsFormats/flver"
)

var flverCmd = &cli.Command{
	Name:  "flver",
	Usage: "work with FLVER model files",
	Subcommands: []*cli.Command{
		flverStatCmd,
	},
}

var flverStatCmd = &cli.Command{
	Name:      "stat",
	Usage:     "summarize the structure of a model (pass - to read stdin)",
	ArgsUsage: "FILE",
	Action: func(ctx *cli.Context) error {
		fname := ctx.Args().Get(0)
		if fname == "" {
			return errors.New("flver.stat: need a file to read (- for stdin)")
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
		warn, err := flver.Dump(os.Stdout, bytes.NewReader(data))
		if warn != nil {
			level.Warn(log).Log("file", fname, "warn", warn)
		}
		return err
	},
}
