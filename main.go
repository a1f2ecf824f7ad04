package main

import (
	"log"

	"github.com/medbridge-ca/medbridge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
