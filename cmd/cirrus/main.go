package main

import (
	"github.com/NCAR/cirrus-portal/pkg/cli"
)

func main() {
	cli.Execute()
}
