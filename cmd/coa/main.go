package main

import (
	"os"

	"github.com/heraerp/coa/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
