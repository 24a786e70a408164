package main

import (
	"log"

	"github.com/MrSnakeDoc/abbrhelper/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(nil).Execute(); err != nil {
		log.Fatalf("❌ abbrhelper: %v", err)
	}
}
