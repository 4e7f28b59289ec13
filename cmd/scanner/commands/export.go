package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/kscanner/internal/export"
	"github.com/wonny/kscanner/internal/pipeline"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "필터 결과를 CSV로 저장",
	Long: `배치를 생성하고 필터/정렬 결과를 UTF-8 (BOM) CSV로 저장합니다.
파일명: korean_stocks_YYYYMMDD_HHMMSS.csv

Example:
  go run ./cmd/scanner export
  go run ./cmd/scanner export --dir ./out --seed 7 --min-score 50 --tier STRONG_BUY,IGNORE`,
	RunE: runExport,
}

var (
	exportQuery queryFlags
	exportDir   string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportQuery.register(exportCmd)
	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "저장 디렉터리")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := cliLogger(cfg)

	q, err := exportQuery.query(cmd)
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}

	batch, err := gen.Generate(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("generate batch: %w", err)
	}

	view, err := pipeline.BuildView(batch, q)
	if err != nil {
		return err
	}

	path, err := export.WriteFile(exportDir, time.Now(), view.Rows)
	if err != nil {
		return err
	}

	log.WithFields(map[string]interface{}{
		"path":     path,
		"rows":     len(view.Rows),
		"batch_id": batch.ID,
	}).Info("CSV exported")

	PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("%d개 종목 저장: %s", len(view.Rows), path))
	return nil
}
