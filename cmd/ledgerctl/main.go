package main

import (
	"os"

	"github.com/diewo77/go-ledger/internal/cli"
)

var Version = "dev"

func main() {
	if err := cli.Execute(Version); err != nil {
		os.Exit(1)
	}
}
