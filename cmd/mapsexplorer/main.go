package main

import (
	"os"

	"mapsexplorer/cmd/mapsexplorer/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
