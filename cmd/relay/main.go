package main

import (
	"os"

	"cipherchat/cmd/relay/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
