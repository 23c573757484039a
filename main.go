package main

import (
	"os"

	"github.com/shaharshita/PathWay-Ai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
