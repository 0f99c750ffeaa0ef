package main

import (
	"fmt"
	"os"

	"spykes/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "spykes: %v\n", err)
		os.Exit(1)
	}
}
