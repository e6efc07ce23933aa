package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/spigell/doc-matcher/cmd"
)

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
