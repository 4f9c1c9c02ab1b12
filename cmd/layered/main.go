package main

import (
	"os"

	"github.com/layered-lang/layered/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
