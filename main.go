package main

import (
	"os"

	"github.com/oliveripkanam/K30-Creator-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
