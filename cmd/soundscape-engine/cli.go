package main

import (
	"fmt"
	"os"

	"github.com/randomstudio/soundscape-engine/internal/bank"
)

// Version is the current engine version. Set at build time via -ldflags.
var Version = "0.1.0-dev"

// RunCLI handles subcommand execution, ahead of flag.Parse(). Returns true
// if a subcommand was handled, mirroring the teacher's RunCLI dispatch.
func RunCLI(args []string) bool {
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "version":
		fmt.Printf("soundscape-engine %s\n", Version)
		return true
	case "validate":
		return cliValidate(args[1:])
	default:
		return false
	}
}

// cliValidate loads a manifest and reports success/failure without starting
// the engine, for CI and authoring workflows.
func cliValidate(args []string) bool {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: soundscape-engine validate <manifest.json>")
		os.Exit(1)
	}
	b, err := bank.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid manifest: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("ok: %d clip(s)\n", len(b.Clips()))
	return true
}
