package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/TechnoWorldDev/BRR-FE-sub005/cmd/brrctl/commands"
)

func main() {
	// A missing .env is fine; BRR_API_URL may come from the real environment.
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
