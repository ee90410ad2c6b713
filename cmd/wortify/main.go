// Package main is the entry point for the Wortify CLI.
package main

import (
	"os"

	"github.com/pitsorgalla/Wortify/cmd/wortify/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
