// Package main is the entry point for the greenquote CLI.
package main

import (
	"os"

	"greenquote/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
