// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Opsboard.
//
// Usage:
//
//	go run . [flags] <command>
//	./opsboard [flags] <command>
//
// See --help for the available commands.
package main

import (
	"os"

	"github.com/opsboard/opsboard/ui/cli"
)

func main() {
	// Cobra has already printed the error.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
