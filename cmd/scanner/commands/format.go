package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/wonny/kscanner/internal/api/handlers"
	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/internal/pipeline"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

var tierColors = map[contracts.Tier]*color.Color{
	contracts.TierStrongBuy:    color.New(color.FgRed, color.Bold),
	contracts.TierBuyCandidate: color.New(color.FgYellow, color.Bold),
	contracts.TierWatch:        color.New(color.FgGreen),
	contracts.TierMonitor:      color.New(color.FgCyan),
	contracts.TierIgnore:       color.New(color.FgHiBlack),
}

// colorTier renders a tier label in its dashboard color
func colorTier(t contracts.Tier) string {
	return tierColors[t].Sprint(t.Label())
}

// colorChange renders a change percent red for gains, blue for losses (국내 관례)
func colorChange(v float64) string {
	s := fmt.Sprintf("%+.1f%%", v)
	switch {
	case v > 0:
		return color.RedString(s)
	case v < 0:
		return color.BlueString(s)
	default:
		return s
	}
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// PrintScoreTable renders rows as the dashboard table
func PrintScoreTable(w io.Writer, rows []contracts.StockScore) {
	table := tablewriter.NewWriter(w)

	header := []string{"종목명", "종목코드", "현재가", "등락률", "총점"}
	for _, f := range contracts.SubScores {
		header = append(header, f.Label())
	}
	header = append(header, "투자추천", "거래량", "시가총액")
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, s := range rows {
		record := []string{
			s.Name,
			s.Code,
			handlers.FormatKRW(s.Price),
			colorChange(s.ChangePercent),
			score(s.Total()),
		}
		for _, f := range contracts.SubScores {
			record = append(record, score(s.Sub(f)))
		}
		record = append(record, colorTier(s.Tier()), s.VolumeLabel, s.MarketCapLabel)
		table.Append(record)
	}

	table.Render()
}

// PrintSummary renders the metric cards
func PrintSummary(w io.Writer, view *pipeline.View) {
	PrintDoubleSeparator(w)
	if view.NoData {
		fmt.Fprintf(w, "  %s\n", handlers.NoMatchesMessage)
		PrintDoubleSeparator(w)
		return
	}

	s := view.Summary
	fmt.Fprintf(w, "  🎯 %d개 종목이 필터 조건을 만족합니다!\n", s.Count)
	PrintSeparator(w)
	PrintKeyValue(w, "평균 점수", fmt.Sprintf("%s점 (%+.1f)", score(s.MeanTotal), s.MeanTotalVsCutoff), 10)
	PrintKeyValue(w, "최고 점수", score(s.MaxTotal)+"점", 10)
	PrintKeyValue(w, "적극매수", fmt.Sprintf("%d개", s.StrongBuyCount), 10)
	PrintKeyValue(w, "평균 등락률", fmt.Sprintf("%+.1f%%", s.MeanChangePercent), 10)
	PrintDoubleSeparator(w)
}

// PrintTop renders the detail list of the top-N rows
func PrintTop(w io.Writer, top []contracts.StockScore) {
	if len(top) == 0 {
		return
	}
	fmt.Fprintln(w, "\n🏆 종목별 상세 분석")
	for i, s := range top {
		fmt.Fprintf(w, "   %d. %s (%s) - %s점 · %s · %s\n",
			i+1, s.Name, s.Code, score(s.Total()), handlers.FormatKRW(s.Price), colorTier(s.Tier()))
	}
}

// PrintMarketInfo renders the sidebar metrics
func PrintMarketInfo(w io.Writer, view *pipeline.View) {
	PrintKeyValue(w, "배치", view.BatchID, 10)
	PrintKeyValue(w, "시드", strconv.FormatUint(view.Seed, 10), 10)
	PrintKeyValue(w, "전체 종목", strconv.Itoa(view.TotalRows), 10)
	PrintKeyValue(w, "75점 이상", strconv.Itoa(view.AboveCutoff), 10)
	for _, warn := range view.Warnings {
		PrintWarning(w, fmt.Sprintf("제외된 종목 %s (%s): %s", warn.Name, warn.Code, warn.Reason))
	}
}

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator(w io.Writer) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}
