// Package main provides the modelc CLI entry point.
package main

import (
	"os"

	"github.com/shubham184/fabric-data-transformation/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
