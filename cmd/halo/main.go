// Command halo is the entry point for the HALO expertise-capture agent.
// It provides a CLI interface (via Cobra) and an HTTP server exposing the
// capture and review API.
package main

import (
	"fmt"
	"os"

	"github.com/megalab/halo/cmd/halo/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
