package main

import (
	"os"

	"github.com/wonny/kscanner/cmd/scanner/commands"
)

// main is the entry point for the scanner CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/scanner [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
