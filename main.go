// Package main implements a cross-platform GUI utility for triaging a
// folder of images into keep and reject piles using the Fyne framework.
package main

import (
	"log"

	"github.com/Akaiko1/rapid-culler/internal/config"
	"github.com/Akaiko1/rapid-culler/internal/ui"
)

func main() {
	log.Println("Starting Rapid Culler...")

	store := config.NewStore("")
	log.Printf("Settings loaded from %s", store.Path())

	app := ui.NewCullerApp(store)
	log.Println("App created, starting UI...")

	app.Run()
}
