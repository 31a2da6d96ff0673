package main

import (
	"os"

	"github.com/ScientiaCapital/videodistiller/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
