package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/kscanner/internal/api"
	"github.com/wonny/kscanner/internal/api/handlers"
	"github.com/wonny/kscanner/internal/metrics"
	"github.com/wonny/kscanner/internal/pipeline"
	"github.com/wonny/kscanner/internal/realtime"
	"github.com/wonny/kscanner/internal/scheduler"
	"github.com/wonny/kscanner/internal/scheduler/jobs"
	"github.com/wonny/kscanner/pkg/redis"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "대시보드/API 서버 시작",
	Long: `HTML 대시보드와 JSON API 서버를 시작합니다.

이 명령어는:
- 첫 배치 생성 (이후 새로고침 전까지 유지)
- 대시보드 및 API 엔드포인트 제공
- SCANNER_REFRESH_SCHEDULE 지정 시 주기적 재생성
- 재생성 시 웹소켓으로 대시보드에 알림

Endpoints:
  GET  /               - 대시보드
  GET  /health         - Health check
  GET  /api/scores     - 필터/정렬된 종목
  GET  /api/summary    - 요약 지표
  GET  /api/top        - 상위 N 종목
  GET  /api/charts     - 차트 데이터
  POST /api/refresh    - 배치 재생성
  GET  /api/export     - CSV 다운로드
  GET  /ws/batches     - 배치 갱신 이벤트
  GET  /metrics        - Prometheus

Example:
  go run ./cmd/scanner serve
  go run ./cmd/scanner serve --port 9090 --seed 42`,
	RunE: runServe,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "서버 포트 (기본: PORT 환경변수)")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Korean Stock Scanner ===")

	// 1. Load config
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Override port if flag is set
	if servePort != "" {
		cfg.Port = servePort
	}

	// 2. Initialize logger
	log := cliLogger(cfg)

	log.WithFields(map[string]interface{}{
		"port":     cfg.Port,
		"env":      cfg.Env,
		"seed_set": cfg.Scanner.SeedSet,
	}).Info("Initializing scanner server")

	// 3. Connect to Redis (optional batch mirror + shared rate limit)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	var cache pipeline.BatchCache
	if redisClient.Enabled() {
		cache = redis.NewBatchCache(redisClient, cfg.Scanner.BatchTTL)
		log.WithField("addr", redisClient.Addr()).Info("Mirroring batches to Redis")
	}

	// 4. Create generator and batch holder
	gen, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}
	holder := pipeline.NewBatchHolder(gen, cache, log)
	p := pipeline.New(holder)

	// 5. Realtime + metrics listeners
	hub := realtime.NewHub(log)
	holder.OnRefresh(hub.PublishBatch)

	var reg *metrics.Registry
	if cfg.MetricsEnabled {
		reg = metrics.NewRegistry()
		holder.OnRefresh(reg.ObserveBatch)
		hub.OnClientsChanged(func(n int) { reg.WSClients.Set(float64(n)) })
	}

	// 6. Warm up: the first batch is generated once and kept
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	batch, err := p.Current(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("generate initial batch: %w", err)
	}

	// 7. Scheduled refresh
	if cfg.Scanner.RefreshSchedule != "" {
		sched := scheduler.New(scheduler.DefaultOptions(), log)
		if err := sched.AddJob(jobs.NewRefreshJob(holder, cfg.Scanner.RefreshSchedule, log)); err != nil {
			return fmt.Errorf("schedule refresh: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 8. Create handlers and router
	checks := map[string]handlers.HealthCheck{
		"batch": func(ctx context.Context) error {
			_, err := p.Current(ctx)
			return err
		},
	}
	if redisClient.Enabled() {
		checks["redis"] = redisClient.Ping
	}

	routes := api.Routes{
		Scanner:   handlers.NewScannerHandler(p, log),
		Dashboard: handlers.NewDashboardHandler(p, log),
		Health:    handlers.NewHealthHandler(cfg.Env, checks, log),
		Events:    hub,
		Limiter:   api.NewLimiter(cfg.RateLimit, redisClient),
	}
	if reg != nil {
		routes.Metrics = reg
	}
	router := api.NewRouter(routes, log)

	// 9. Create server
	server := api.New(cfg, log, router)

	// 10. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.WithFields(map[string]interface{}{
		"batch_id": batch.ID,
		"seed":     batch.Seed,
		"rows":     batch.Len(),
	}).Info("Scanner server started successfully")
	fmt.Printf("\n✅ Dashboard running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	hub.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
