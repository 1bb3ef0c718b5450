package main

import (
	"os"

	"github.com/krishkalaria12/imageworld/cli"
)

func main() {
	os.Exit(cli.Execute())
}
