package main

import (
	"os"

	"github.com/harun/termvault/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
