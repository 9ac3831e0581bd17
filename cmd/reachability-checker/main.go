package main

import (
	"os"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Run Run `embed:""`
}

func main() {
	var cli CLI

	kong.Parse(&cli,
		kong.Name("reachability-checker"),
		kong.Description("Sweeps the addresses found in the input text and reports which of them are reachable."),
	)

	if err := run(&cli); err != nil {
		os.Exit(1)
	}
}
