package main

import (
	"os"

	"github.com/planitlabs/placecache/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
