package main

import (
	"os"

	"github.com/rdittrich/recap/cmd/recap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
