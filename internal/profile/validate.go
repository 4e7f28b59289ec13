package profile

import (
	"fmt"

	"github.com/wonny/kscanner/internal/contracts"
)

// ValidationError 검증 실패
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(p *Profile) error {
	if p.Meta.ProfileID == "" {
		return ValidationError{"meta.profile_id", "required"}
	}

	// === Roster ===
	if len(p.Roster) == 0 {
		return ValidationError{"roster", "must not be empty"}
	}
	seen := make(map[string]bool, len(p.Roster))
	for i, name := range p.Roster {
		if name == "" {
			return ValidationError{fmt.Sprintf("roster[%d]", i), "must not be empty"}
		}
		if seen[name] {
			return ValidationError{fmt.Sprintf("roster[%d]", i), fmt.Sprintf("duplicate name %q", name)}
		}
		seen[name] = true
	}

	// === Bands ===
	if p.HighBand.Count < 0 || p.HighBand.Count > len(p.Roster) {
		return ValidationError{"high_band.count", fmt.Sprintf("must be in [0, %d]", len(p.Roster))}
	}
	if p.LowBand.Count != 0 {
		return ValidationError{"low_band.count", "must be omitted (low band covers the remaining roster)"}
	}
	if err := validateBand("high_band", p.HighBand); err != nil {
		return err
	}
	if err := validateBand("low_band", p.LowBand); err != nil {
		return err
	}

	// === Market ===
	m := p.Market
	if m.Price.Min <= 0 || m.Price.Min > m.Price.Max {
		return ValidationError{"market.price_krw", "must satisfy 0 < min <= max"}
	}
	if m.ChangePercent.Min > m.ChangePercent.Max {
		return ValidationError{"market.change_percent", "min must be <= max"}
	}
	if m.VolumeManShare.Min < 0 || m.VolumeManShare.Min > m.VolumeManShare.Max {
		return ValidationError{"market.volume_man_shares", "must satisfy 0 <= min <= max"}
	}
	if m.MarketCapJo.Min < 0 || m.MarketCapJo.Min > m.MarketCapJo.Max {
		return ValidationError{"market.market_cap_jo", "must satisfy 0 <= min <= max"}
	}

	return nil
}

func validateBand(prefix string, b Band) error {
	for _, field := range contracts.SubScores {
		r := b.Range(field)
		name := fmt.Sprintf("%s.%s", prefix, field.Key())
		if r.Min > r.Max {
			return ValidationError{name, "min must be <= max"}
		}
		if r.Min < 0 || r.Max > field.Max() {
			return ValidationError{name, fmt.Sprintf("must lie within [0, %v]", field.Max())}
		}
	}
	return nil
}

// Range returns the draw range for one component
func (b Band) Range(field contracts.SubScore) Range {
	switch field {
	case contracts.SubInstitution:
		return b.Institution
	case contracts.SubVolume:
		return b.Volume
	case contracts.SubNews:
		return b.News
	case contracts.SubProgram:
		return b.Program
	default:
		return b.Technical
	}
}
