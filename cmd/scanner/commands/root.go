package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/kscanner/internal/generator"
	"github.com/wonny/kscanner/internal/profile"
	"github.com/wonny/kscanner/pkg/config"
	"github.com/wonny/kscanner/pkg/logger"
)

var (
	// Global flags
	seed        uint64
	profilePath string
	env         string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scanner",
	Short: "Korean Stock Scanner - 모의 종목 점수 대시보드",
	Long: `Korean Stock Scanner CLI

모의 데이터로 20개 종목의 점수를 생성하고
필터/정렬/요약/차트/CSV 내보내기를 제공합니다.

Usage:
  go run ./cmd/scanner [command]

Examples:
  go run ./cmd/scanner serve
  go run ./cmd/scanner scan --seed 42 --min-score 80
  go run ./cmd/scanner export --dir ./out
  go run ./cmd/scanner profile show
  go run ./cmd/scanner remote refresh --server http://localhost:8080`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "고정 시드 (미지정 시 SCANNER_SEED 또는 시간 기반)")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "생성 프로파일 YAML (기본: 내장 프로파일)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the environment and applies global flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if env != "" {
		// config.Load is the only reader of the environment
		if err := os.Setenv("ENV", env); err != nil {
			return nil, fmt.Errorf("set ENV: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("seed") {
		cfg.Scanner.Seed = seed
		cfg.Scanner.SeedSet = true
	}
	if profilePath != "" {
		cfg.Scanner.ProfilePath = profilePath
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// cliLogger logs to stderr so tables on stdout stay clean
func cliLogger(cfg *config.Config) *logger.Logger {
	return logger.NewWithWriter(os.Stderr, cfg)
}

// newGenerator builds the mock-source generator for cfg
func newGenerator(cfg *config.Config, log *logger.Logger) (*generator.Generator, error) {
	p, err := profile.LoadOrDefault(cfg.Scanner.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	hash, err := profile.Hash(p)
	if err != nil {
		return nil, fmt.Errorf("hash profile: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"profile_id": p.Meta.ProfileID,
		"hash":       hash[:12],
		"seed_set":   cfg.Scanner.SeedSet,
	}).Debug("Generator ready")

	return generator.New(generator.NewMockSource(p), generator.Options{
		Seed:        cfg.Scanner.Seed,
		SeedSet:     cfg.Scanner.SeedSet,
		ProfileHash: hash,
	}, log), nil
}
