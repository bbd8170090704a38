package main

import (
	"os"

	"github.com/hashgraph-online/hts-contract-demo-go/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
