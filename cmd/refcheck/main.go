package main

import (
	"fmt"
	"os"

	"github.com/homecfg/refcheck/pkg/cli"
	"github.com/homecfg/refcheck/pkg/console"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
