package profile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()

	assert.Equal(t, "korea_scanner_mock", p.Meta.ProfileID)
	assert.Len(t, p.Roster, 20)
	assert.Equal(t, "삼성전자", p.Roster[0])
	assert.Equal(t, "LG생활건강", p.Roster[19])
	assert.Equal(t, 12, p.HighBand.Count)

	assert.Equal(t, p.HighBand, p.BandFor(11))
	assert.Equal(t, p.LowBand, p.BandFor(12))
}

func TestHash(t *testing.T) {
	p := Default()

	hash, err := Hash(p)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	hash2, _ := Hash(Default())
	assert.Equal(t, hash, hash2, "hash not deterministic")

	p.Roster[0] = "삼성전자우"
	hash3, _ := Hash(p)
	assert.NotEqual(t, hash, hash3)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, DefaultYAML(), 0o644))

	p, data, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, Default(), p)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	p, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestParse_UnknownField(t *testing.T) {
	doc := strings.Replace(string(DefaultYAML()), "meta:", "metta:\n  x: 1\nmeta:", 1)

	_, err := Parse([]byte(doc))
	assert.Error(t, err, "unknown fields must fail")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
		field  string
	}{
		{"missing id", func(p *Profile) { p.Meta.ProfileID = "" }, "meta.profile_id"},
		{"empty roster", func(p *Profile) { p.Roster = nil }, "roster"},
		{"duplicate roster", func(p *Profile) { p.Roster[1] = p.Roster[0] }, "roster[1]"},
		{"high count too big", func(p *Profile) { p.HighBand.Count = 21 }, "high_band.count"},
		{"low count set", func(p *Profile) { p.LowBand.Count = 3 }, "low_band.count"},
		{"institution above bound", func(p *Profile) { p.HighBand.Institution.Max = 36 }, "high_band.institution"},
		{"news inverted", func(p *Profile) { p.LowBand.News = Range{Min: 9, Max: 3} }, "low_band.news"},
		{"technical negative", func(p *Profile) { p.LowBand.Technical.Min = -1 }, "low_band.technical"},
		{"price zero", func(p *Profile) { p.Market.Price.Min = 0 }, "market.price_krw"},
		{"change inverted", func(p *Profile) { p.Market.ChangePercent = Range{Min: 5, Max: 1} }, "market.change_percent"},
		{"cap inverted", func(p *Profile) { p.Market.MarketCapJo = IntRange{Min: 10, Max: 1} }, "market.market_cap_jo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(p)

			err := Validate(p)
			require.Error(t, err)

			var verr ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
