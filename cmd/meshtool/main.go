// meshtool is a CLI utility for inspecting STL and OBJ model files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/Faultbox/modelview/internal/engine/camera"
	"github.com/Faultbox/modelview/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "frame":
		cmdFrame(args)
	case "list", "ls":
		cmdList(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - STL/OBJ model utility

Usage:
  meshtool <command> [options]

Commands:
  info [-j N] <file>...               Show format, counts, bounds and normalization
  frame [-fov deg] [-margin m] <file> Show the camera pose that frames the model
  list <dir>                          List supported model files under a directory

Examples:
  meshtool info bracket.stl gear.obj
  meshtool frame -fov 60 bracket.stl
  meshtool list ./models`)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	jobs := fs.Int("j", runtime.NumCPU(), "Number of files parsed in parallel")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool info [-j N] <file>...")
		os.Exit(1)
	}

	reports := inspectAll(context.Background(), fs.Args(), *jobs)
	failed := false
	for i, r := range reports {
		if i > 0 {
			fmt.Println()
		}
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", r.Path, r.Err)
			failed = true
			continue
		}
		writeReport(os.Stdout, r)
	}
	if failed {
		os.Exit(1)
	}
}

func cmdFrame(args []string) {
	fs := flag.NewFlagSet("frame", flag.ExitOnError)
	fov := fs.Float64("fov", 45, "Vertical field of view in degrees")
	margin := fs.Float64("margin", camera.DefaultMargin, "Distance margin around the model")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool frame [-fov deg] [-margin m] <file>")
		os.Exit(1)
	}

	r := inspect(context.Background(), fs.Arg(0))
	if r.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", r.Err)
		os.Exit(1)
	}

	framer := camera.Framer{FOV: degToRad(*fov), Margin: *margin}
	writePose(os.Stdout, framer.Frame(r.Model.NormalizedBounds()))
}

func cmdList(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool list <dir>")
		os.Exit(1)
	}

	ids, err := store.Scan(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	fmt.Fprintf(os.Stderr, "%d model files\n", len(ids))
}
