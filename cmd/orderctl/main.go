package main

import (
	"os"

	"cardorders/cmd/orderctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
