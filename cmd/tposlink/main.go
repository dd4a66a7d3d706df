package main

import (
	"os"

	"github.com/tillhub/tpos/cmd/tposlink/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
