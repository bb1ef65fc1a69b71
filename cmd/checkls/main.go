package main

import (
	"fmt"
	"os"

	"checkls"
)

func main() {
	if err := checkls.CLI(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: error: %v\n", os.Args[0], err)
		os.Exit(1)
	}
}
