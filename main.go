package main

import (
	"os"

	"github.com/abhisek/wallstreet101/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
