package main

import (
	"os"

	"github.com/wonny/comps/cmd/comps/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
