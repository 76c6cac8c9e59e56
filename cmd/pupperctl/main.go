// Package main provides the entry point for the pupperctl harness CLI.
package main

import (
	"os"

	"github.com/raphaelgruber/pupper-bridge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
