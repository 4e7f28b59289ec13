package profile

// Profile는 모의 점수 생성 설정 전체
type Profile struct {
	Meta     Meta     `yaml:"meta" json:"meta"`
	Roster   []string `yaml:"roster" json:"roster"`
	HighBand Band     `yaml:"high_band" json:"high_band"`
	LowBand  Band     `yaml:"low_band" json:"low_band"`
	Market   Market   `yaml:"market" json:"market"`
}

// Meta 메타 정보
type Meta struct {
	ProfileID string `yaml:"profile_id" json:"profile_id"`
	Version   string `yaml:"version" json:"version"`
}

// Band is a set of sub-score draw ranges.
// HighBand.Count roster entries (from the top) use the high band, the rest the low band.
type Band struct {
	Count       int   `yaml:"count,omitempty" json:"count,omitempty"`
	Institution Range `yaml:"institution" json:"institution"`
	Volume      Range `yaml:"volume" json:"volume"`
	News        Range `yaml:"news" json:"news"`
	Program     Range `yaml:"program" json:"program"`
	Technical   Range `yaml:"technical" json:"technical"`
}

// Market holds ranges for the non-scoring columns
type Market struct {
	Price          IntRange `yaml:"price_krw" json:"price_krw"`
	ChangePercent  Range    `yaml:"change_percent" json:"change_percent"`
	VolumeManShare IntRange `yaml:"volume_man_shares" json:"volume_man_shares"` // 만주 단위
	MarketCapJo    IntRange `yaml:"market_cap_jo" json:"market_cap_jo"`         // 조원 단위
}

// Range is an inclusive float interval
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// IntRange is an inclusive integer interval
type IntRange struct {
	Min int64 `yaml:"min" json:"min"`
	Max int64 `yaml:"max" json:"max"`
}

// BandFor returns the band used for the roster entry at index i
func (p *Profile) BandFor(i int) Band {
	if i < p.HighBand.Count {
		return p.HighBand
	}
	return p.LowBand
}
