package main

import (
	"log"

	"github.com/futig/pdfqa/internal/builder"
)

func main() {
	app, err := builder.BuildMockServer()
	if err != nil {
		log.Fatal("Failed to build development backend:", err)
	}

	if err := app.Run(); err != nil {
		log.Fatal("Development backend error:", err)
	}
}
