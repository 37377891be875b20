package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/thurmanmarka/almanac/internal/log"
)

func main() {
	debug := os.Getenv("ALMANAC_DEBUG") != ""
	if err := log.Init(debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	// Backwards-compatible behavior:
	// - If no args or first arg starts with "-", run sun mode.
	// - Otherwise treat the first arg as a subcommand (e.g. "phase").
	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		run(runSun, os.Args[1:])
		return
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "sun":
		run(runSun, args)
	case "phase", "moon":
		run(runPhase, args)
	case "phases":
		run(runPhases, args)
	case "seasons":
		run(runSeasons, args)
	case "position":
		run(runPosition, args)
	case "jd":
		run(runJD, args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func run(fn func([]string) error, args []string) {
	if err := fn(args); err != nil {
		if err == flag.ErrHelp {
			return
		}
		log.Fatalf("%v", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `almanac – sun, moon and calendar events

Usage:
  almanac [sun] [flags]        # sunrise, solar noon, sunset, twilight, golden/blue hour
                               # (-body moon for moonrise, transit and moonset)
  almanac phase [flags]        # Moon phase / illumination at an instant (alias: moon)
  almanac phases [flags]       # all principal Moon phases of a year
  almanac seasons [flags]      # equinoxes and solstices of a year
  almanac position [flags]     # apparent solar RA/Dec and sidereal time
  almanac jd [flags]           # calendar date <-> Julian Day

Run "almanac <subcommand> -h" for the flags of each subcommand.
Set ALMANAC_DEBUG=1 for debug logging on stderr.
`)
}
