// Package main is the entry point for the codescan CLI tool.
package main

import (
	"os"

	"github.com/bebsworthy/codescan/internal/cli"
)

func main() {
	cli.Main(os.Args[1:])
}
