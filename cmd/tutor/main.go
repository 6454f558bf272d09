package main

import (
	"fmt"
	"os"

	"github.com/mithrel/tutor/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tutor:", err)
		os.Exit(1)
	}
}
