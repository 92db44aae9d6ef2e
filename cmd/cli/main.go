package main

import (
	"github.com/hepworks/evtl/pkg/cli"
)

func main() {
	cli.Execute()
}
