package contracts

import (
	"fmt"
	"strings"
)

// Tier is the discrete recommendation bucket derived from a total score
type Tier int

const (
	TierIgnore Tier = iota
	TierMonitor
	TierWatch
	TierBuyCandidate
	TierStrongBuy
)

// tierStep is one rung of the classification ladder
type tierStep struct {
	min  float64
	tier Tier
}

// ladder is ordered from the highest bound down; the first bound reached wins.
// Bounds are inclusive.
var ladder = []tierStep{
	{90, TierStrongBuy},
	{85, TierBuyCandidate},
	{80, TierWatch},
	{75, TierMonitor},
}

// AllTiers lists tiers from best to worst
var AllTiers = []Tier{TierStrongBuy, TierBuyCandidate, TierWatch, TierMonitor, TierIgnore}

var tierCodes = map[Tier]string{
	TierStrongBuy:    "STRONG_BUY",
	TierBuyCandidate: "BUY_CANDIDATE",
	TierWatch:        "WATCH",
	TierMonitor:      "MONITOR",
	TierIgnore:       "IGNORE",
}

// 대시보드 표시용 라벨
var tierLabels = map[Tier]string{
	TierStrongBuy:    "🔥 적극매수",
	TierBuyCandidate: "📈 매수검토",
	TierWatch:        "👀 관심종목",
	TierMonitor:      "📊 모니터링",
	TierIgnore:       "❌ 관심없음",
}

// Classify maps a total score to its tier
func Classify(total float64) Tier {
	for _, step := range ladder {
		if total >= step.min {
			return step.tier
		}
	}
	return TierIgnore
}

// MinScore returns the inclusive lower bound of the tier (0 for IGNORE)
func (t Tier) MinScore() float64 {
	for _, step := range ladder {
		if step.tier == t {
			return step.min
		}
	}
	return 0
}

// String returns the stable machine code (STRONG_BUY ...)
func (t Tier) String() string {
	if code, ok := tierCodes[t]; ok {
		return code
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// Label returns the Korean display label
func (t Tier) Label() string {
	if label, ok := tierLabels[t]; ok {
		return label
	}
	return t.String()
}

// MarshalText encodes the tier as its code
func (t Tier) MarshalText() ([]byte, error) {
	if _, ok := tierCodes[t]; !ok {
		return nil, fmt.Errorf("unknown tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText accepts a code or a label
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTier accepts either the code ("strong_buy", case-insensitive) or the display label
func ParseTier(s string) (Tier, error) {
	trimmed := strings.TrimSpace(s)
	for tier, code := range tierCodes {
		if strings.EqualFold(trimmed, code) || trimmed == tierLabels[tier] {
			return tier, nil
		}
	}
	return TierIgnore, fmt.Errorf("unknown tier %q", s)
}

// TierSet is a set of allowed tiers
type TierSet map[Tier]struct{}

// NewTierSet builds a set from the given tiers
func NewTierSet(tiers ...Tier) TierSet {
	set := make(TierSet, len(tiers))
	for _, t := range tiers {
		set[t] = struct{}{}
	}
	return set
}

// AllTierSet contains every tier
func AllTierSet() TierSet {
	return NewTierSet(AllTiers...)
}

// DefaultTierSet matches the dashboard default: everything except IGNORE
func DefaultTierSet() TierSet {
	return NewTierSet(TierStrongBuy, TierBuyCandidate, TierWatch, TierMonitor)
}

// Contains reports whether t is in the set
func (s TierSet) Contains(t Tier) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the members ordered best to worst
func (s TierSet) Sorted() []Tier {
	out := make([]Tier, 0, len(s))
	for _, t := range AllTiers {
		if s.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// ParseTierSet parses a list of codes/labels; blank entries are ignored
func ParseTierSet(values []string) (TierSet, error) {
	set := make(TierSet, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		tier, err := ParseTier(v)
		if err != nil {
			return nil, err
		}
		set[tier] = struct{}{}
	}
	return set, nil
}
