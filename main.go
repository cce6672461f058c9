// Package main is the entry point for tcgen, the rule-based test case
// generator.
package main

import (
	"os"

	"tcgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
