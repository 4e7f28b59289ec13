package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/internal/pipeline"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "배치 1회 생성 후 표로 출력",
	Long: `모의 배치를 한 번 생성하고 필터/정렬을 적용해 출력합니다.

출력:
- 시장 정보 (전체 종목, 75점 이상)
- 요약 지표 (평균/최고 점수, 적극매수 수, 평균 등락률)
- 종목 테이블
- 상위 N 종목 상세

Example:
  go run ./cmd/scanner scan
  go run ./cmd/scanner scan --seed 42 --min-score 85 --tier STRONG_BUY,BUY_CANDIDATE
  go run ./cmd/scanner scan --sort change_percent --asc`,
	RunE: runScan,
}

var scanQuery queryFlags

func init() {
	rootCmd.AddCommand(scanCmd)
	scanQuery.register(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := cliLogger(cfg)

	q, err := scanQuery.query(cmd)
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

	return renderScan(cmd.OutOrStdout(), batch, q)
}

// renderScan prints everything the dashboard shows for one batch
func renderScan(w io.Writer, batch *contracts.Batch, q pipeline.Query) error {
	view, err := pipeline.BuildView(batch, q)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "📊 Korean Stock Scanner")
	PrintMarketInfo(w, view)
	PrintSummary(w, view)
	if view.NoData {
		return nil
	}

	PrintScoreTable(w, view.Rows)
	PrintTop(w, view.Top)
	return nil
}

// commandContext falls back to Background outside cobra.ExecuteContext
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
