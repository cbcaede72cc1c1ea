package main

import (
	"log"

	"github.com/futig/pdfqa/internal/builder"
)

func main() {
	app, err := builder.BuildCLI()
	if err != nil {
		log.Fatal("Failed to build terminal client:", err)
	}

	if err := app.Run(); err != nil {
		log.Fatal("Terminal client error:", err)
	}
}
