package main

import (
	"os"

	"github.com/lfreitas/redator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
