package main

import (
	"os"

	"github.com/jlgsjlgs/HowMuchAh-backend/cmd/howmuchah/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
