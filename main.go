package main

import (
	"os"

	"github.com/TumiLabsJN/RumiAIv3/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
