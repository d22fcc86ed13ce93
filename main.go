package main

import (
	"os"

	"github.com/mickamy/bookstore/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
