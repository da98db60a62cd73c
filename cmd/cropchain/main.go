// Package main provides the cropchain CLI: batch creation, lookup,
// timeline updates, recall, and the HTTP server.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}
