package main

import (
	"os"

	"github.com/storewire/storewire/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
