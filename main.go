package main

import (
	"os"

	"github.com/stackmatch/stackmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
