package main

import (
	"fmt"
	"os"
)

func main() {
	cli := newCLI(os.Stdout)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
