package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/kscanner/internal/contracts"
	"github.com/wonny/kscanner/internal/pipeline"
)

// queryFlags mirrors the dashboard sidebar for scan/export/remote
type queryFlags struct {
	minScore  float64
	tiers     []string
	sortKey   string
	ascending bool
	top       int
}

func (f *queryFlags) register(cmd *cobra.Command) {
	def := pipeline.DefaultQuery()
	cmd.Flags().Float64Var(&f.minScore, "min-score", def.MinScore, "최소 점수 기준 (50~95)")
	cmd.Flags().StringSliceVar(&f.tiers, "tier", nil, "투자 추천 필터 (예: STRONG_BUY,WATCH; 기본: IGNORE 제외 전체)")
	cmd.Flags().StringVar(&f.sortKey, "sort", string(def.SortKey), "정렬 기준 (total|change_percent|institution|volume)")
	cmd.Flags().BoolVar(&f.ascending, "asc", false, "오름차순 정렬")
	cmd.Flags().IntVar(&f.top, "top", def.TopN, "상세 분석 종목 수")
}

// query builds a validated pipeline.Query; --tier="" selects nothing
func (f *queryFlags) query(cmd *cobra.Command) (pipeline.Query, error) {
	q := pipeline.DefaultQuery()
	q.MinScore = f.minScore
	q.Ascending = f.ascending
	q.TopN = f.top

	key, err := pipeline.ParseSortKey(f.sortKey)
	if err != nil {
		return q, err
	}
	q.SortKey = key

	if cmd.Flags().Changed("tier") {
		set, err := contracts.ParseTierSet(f.tiers)
		if err != nil {
			return q, fmt.Errorf("--tier: %w", err)
		}
		q.Tiers = set
	}

	if err := q.Validate(); err != nil {
		return q, err
	}
	return q, nil
}
