package main

import (
	"os"

	"github.com/penzero00/Panel-Zero/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
