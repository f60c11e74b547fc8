package main

import (
	"os"

	"github.com/tobagin/secrets/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
