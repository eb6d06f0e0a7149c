// Package main starts the cropslice server.
package main

import (
	"flag"
	"os"

	"github.com/frudas24/cropslice/internal/logging"
)

// main is the entrypoint for the cropslice server.
func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	logging.SetLogger(logging.NewText(os.Stderr, *debug))
	if err := run(*debug); err != nil {
		logging.Logger().Error("fatal", "err", err)
		os.Exit(1)
	}
}
