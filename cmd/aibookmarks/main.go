package main

import (
	"log"

	"github.com/linonon/aibookmarks/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("aibookmarks failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("aibookmarks stopped with error: %v", err)
	}
}
