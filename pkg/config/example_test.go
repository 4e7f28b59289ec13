package config_test

import (
	"fmt"

	"github.com/wonny/kscanner/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Server listening on %s\n", cfg.Addr())
	fmt.Printf("Environment: %s\n", cfg.Env)
	if cfg.Scanner.SeedSet {
		fmt.Printf("Deterministic seed: %d\n", cfg.Scanner.Seed)
	}
}
