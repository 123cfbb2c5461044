package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("psout: ")
	if err := newRootCmd().Execute(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}
