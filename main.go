package main

import (
	"log"
	"os"

	"github.com/farewelly/farewelly/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// A local .env is optional; real deployments configure via environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env file: %v", err)
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
