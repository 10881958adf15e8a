// ABOUTME: Entry point for the facepunch client
// ABOUTME: Face attendance from the terminal, as a TUI or scriptable CLI

package main

import (
	"fmt"
	"os"

	"github.com/markalston/facepunch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
