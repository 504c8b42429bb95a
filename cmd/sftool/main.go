// sftool implements a command line tool for inspecting and converting
// FromSoftware asset files.
package main

import (
	"fmt"
	"io"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
)

// Version and Build are set by ldflags
var (
	Version = "snapshot"
	Build   = ""
)

var log kitlog.Logger

func init() {
	log = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
}

var app = cli.App{
	Name:    os.Args[0],
	Usage:   "inspect and convert FromSoftware asset files",
	Version: "alpha1",

	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"vv"}, Usage: "print per-step detail"},
	},

	Before: initLog,
	Commands: []*cli.Command{
		mtdCmd,
		flverCmd,
		dcxCmd,
	},
}

func initLog(ctx *cli.Context) error {
	if !ctx.Bool("verbose") {
		log = level.NewFilter(log, level.AllowInfo())
	}
	return nil
}

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Printf("%s (rev: %s, built: %s)\n", c.App.Version, Version, Build)
	}

	if err := app.Run(os.Args); err != nil {
		level.Error(log).Log("run-failure", err)
		os.Exit(1)
	}
}

func readInput(fname string) ([]byte, error) {
	if fname == "-" {
		return io.ReadAll(os.Stdin)
	}
	b, err := os.ReadFile(fname)
	return b, errors.Wrapf(err, "read %s", fname)
}

func writeOutput(fname string, data []byte) error {
	if fname == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return errors.Wrapf(os.WriteFile(fname, data, 0666), "write %s", fname)
}
