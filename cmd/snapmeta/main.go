// Package main is the entry point for the snapmeta CLI.
package main

import (
	"os"

	"github.com/snapmeta/snapmeta/cmd/snapmeta/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
