package main

import (
	"os"

	"github.com/Prinsessen/KML-City-Extractor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
