package main

import (
	"os"

	"github.com/soundprediction/triago/cmd/triago"
)

func main() {
	if err := triago.Execute(); err != nil {
		os.Exit(1)
	}
}
