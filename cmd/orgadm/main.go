// Package main is the entry point for the orgadm CLI binary.
package main

import (
	"os"

	cli "orgadm/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
