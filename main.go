package main

import (
	"fmt"
	"os"

	"github.com/acestep/studio/cmd/studio"
)

func main() {
	if err := studio.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
