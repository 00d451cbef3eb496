package main

import (
	"log"

	"github.com/NCAR/cirrus-portal/pkg/logging"
	"github.com/NCAR/cirrus-portal/pkg/server"
)

// version is overridden during build with ldflags.
var version = "dev"

func main() {
	logging.SetDefaultStructuredLogger("cirrusd", version)

	config := server.NewConfig()
	config.Version = version

	if err := server.RunWithConfig(config); err != nil {
		log.Fatal(err)
	}
}
