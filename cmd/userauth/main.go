// Command userauth serves the in-memory user store with bearer-token sessions.
package main

import (
	"log"

	"github.com/patric-chuzhbe/userauth/internal/app"
)

func main() {
	theApp, err := app.New()
	if err != nil {
		log.Fatal(err)
	}
	defer theApp.Close()

	if err := theApp.Run(); err != nil {
		theApp.Close()
		log.Fatal(err)
	}
}
