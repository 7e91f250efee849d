// Package main is the entry point for the agency-books CLI.
package main

import (
	"os"

	"github.com/SscSPs/agency_books/cmd/agency_cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
