package main

import (
	"os"

	"github.com/aria3ppp/delivery-areas-seeder/cmd/seeder/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
