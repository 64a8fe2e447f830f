package main

import (
	"os"

	"github.com/sumire/freelance/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
