package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/kscanner/internal/api/handlers"
	"github.com/wonny/kscanner/internal/pipeline"
	"github.com/wonny/kscanner/pkg/config"
	"github.com/wonny/kscanner/pkg/httputil"
)

// remoteCmd represents the remote command
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "실행 중인 서버 제어",
	Long: `실행 중인 scanner 서버의 API를 호출합니다.

Subcommands:
  refresh  - 배치 재생성 (POST /api/refresh)
  summary  - 요약 지표 조회 (GET /api/summary)

Example:
  go run ./cmd/scanner remote refresh --server http://localhost:8080
  go run ./cmd/scanner remote summary --min-score 85`,
}

var (
	remoteServer  string
	remoteTimeout time.Duration
	remoteQuery   queryFlags

	remoteRefreshCmd = &cobra.Command{
		Use:   "refresh",
		Short: "배치 재생성",
		RunE:  runRemoteRefresh,
	}

	remoteSummaryCmd = &cobra.Command{
		Use:   "summary",
		Short: "요약 지표 조회",
		RunE:  runRemoteSummary,
	}
)

func init() {
	rootCmd.AddCommand(remoteCmd)
	remoteCmd.AddCommand(remoteRefreshCmd)
	remoteCmd.AddCommand(remoteSummaryCmd)

	remoteCmd.PersistentFlags().StringVar(&remoteServer, "server", "http://localhost:8080", "서버 주소")
	remoteCmd.PersistentFlags().DurationVar(&remoteTimeout, "timeout", 10*time.Second, "요청 타임아웃")
	remoteQuery.register(remoteSummaryCmd)
}

// envelope mirrors handlers.Envelope with a typed payload
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

func remoteClient(cfg *config.Config) *httputil.Client {
	return httputil.NewWithTimeout(cliLogger(cfg), remoteTimeout)
}

func remoteURL(path string) string {
	return strings.TrimRight(remoteServer, "/") + path
}

func runRemoteRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	resp, err := remoteClient(cfg).Post(commandContext(cmd), remoteURL("/api/refresh"), "", nil)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	var out envelope[handlers.RefreshResponse]
	if err := httputil.DecodeJSON(resp, &out); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	w := cmd.OutOrStdout()
	PrintSuccess(w, "배치 재생성 완료")
	PrintKeyValue(w, "배치", out.Data.BatchID, 8)
	PrintKeyValue(w, "시드", fmt.Sprintf("%d", out.Data.Seed), 8)
	PrintKeyValue(w, "종목 수", fmt.Sprintf("%d", out.Data.Rows), 8)
	if out.Data.Rejected > 0 {
		PrintWarning(w, fmt.Sprintf("%d개 종목이 검증에서 제외됨", out.Data.Rejected))
	}
	return nil
}

func runRemoteSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	q, err := remoteQuery.query(cmd)
	if err != nil {
		return err
	}

	url := remoteURL("/api/summary?" + handlers.EncodeQuery(q).Encode())
	resp, err := remoteClient(cfg).Get(commandContext(cmd), url)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}

	var out envelope[handlers.SummaryResponse]
	if err := httputil.DecodeJSON(resp, &out); err != nil {
		return fmt.Errorf("summary: %w", err)
	}

	PrintSummary(cmd.OutOrStdout(), &pipeline.View{
		NoData:  out.Data.NoData,
		Summary: out.Data.Summary,
	})
	return nil
}
