package main

import (
	"os"

	"github.com/13pathak/AI-Popup-Infopedia/internal/cli"
)

var version = "dev"

func main() {
	cli.Version = version
	os.Exit(cli.Execute())
}
