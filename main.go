package main

import (
	"os"

	"github.com/abhisek/learnpulse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
