// Command electro is a study assistant for an electromagnetism course.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/electro-agent/internal/adapters/driving/cli"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// A missing .env is fine; keys may come from the environment or config.toml.
	_ = godotenv.Load()

	cli.SetVersion(versionString())
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionString() string {
	if commit == "none" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, commit)
}
