package main

import (
	"log"

	"fwhook/cmd/fwhook/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatal(err)
	}
}
