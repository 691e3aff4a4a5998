package main

import (
	"os"

	"github.com/mozilla-ai/mcpcat/cmd"
)

func main() {
	// Cobra has already reported the error.
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
