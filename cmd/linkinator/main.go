// Command linkinator is the CLI entry point (spec §6): a thin wrapper
// that hands off to internal/cli immediately, the way the teacher
// keeps main.go itself free of any crawl logic.
package main

import (
	"os"

	"github.com/linkinator-go/linkinator/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
