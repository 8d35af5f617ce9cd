package main

import (
	"os"

	"github.com/braunmar/deskshell/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
