package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/wonny/kscanner/internal/contracts"
)

// Header is the CSV column order
var Header = []string{
	"종목명", "종목코드", "현재가", "등락률", "총점",
	"기관투자자", "거래량돌파", "뉴스분석", "프로그램매매", "기술적분석",
	"투자추천", "거래량", "시가총액",
}

const (
	colName = iota
	colCode
	colPrice
	colChange
	colTotal
	colInstitution
	colVolume
	colNews
	colProgram
	colTechnical
	colTier
	colVolumeLabel
	colMarketCap
)

// utf8BOM lets spreadsheet apps detect the encoding (Korean headers)
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// totalTolerance absorbs float noise between the written total and the
// re-summed sub-scores
const totalTolerance = 1e-6

var (
	// ErrHeaderMismatch is returned when a file does not carry Header
	ErrHeaderMismatch = errors.New("csv header mismatch")

	// ErrTotalMismatch is returned when a row's total is not the sum of its sub-scores
	ErrTotalMismatch = errors.New("total does not equal sum of sub-scores")
)

// Filename returns the download name for an export taken at now
func Filename(now time.Time) string {
	return "korean_stocks_" + now.Format("20060102_150405") + ".csv"
}

// Write encodes scores as UTF-8 CSV with a BOM, one row per score
func Write(w io.Writer, scores []contracts.StockScore) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range scores {
		if err := cw.Write(record(s)); err != nil {
			return fmt.Errorf("write csv row %s: %w", s.Code, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteFile writes scores into dir under Filename(now) and returns the path
func WriteFile(dir string, now time.Time, scores []contracts.StockScore) (string, error) {
	path := filepath.Join(dir, Filename(now))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	if err := Write(buf, scores); err != nil {
		return "", err
	}
	if err := buf.Flush(); err != nil {
		return "", fmt.Errorf("flush export file: %w", err)
	}

	return path, nil
}

func record(s contracts.StockScore) []string {
	return []string{
		s.Name,
		s.Code,
		strconv.FormatInt(s.Price, 10),
		formatScore(s.ChangePercent),
		formatScore(s.Total()),
		formatScore(s.Institution),
		formatScore(s.Volume),
		formatScore(s.News),
		formatScore(s.Program),
		formatScore(s.Technical),
		s.Tier().String(),
		s.VolumeLabel,
		s.MarketCapLabel,
	}
}

// 소수점 한 자리 (생성 단계에서 이미 반올림됨)
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Read parses a file produced by Write. The header must match and every
// total must equal the sum of its sub-scores.
func Read(r io.Reader) ([]contracts.StockScore, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrHeaderMismatch)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrHeaderMismatch, i+1, header[i], col)
		}
	}

	var scores []contracts.StockScore
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		s, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		scores = append(scores, s)
	}

	return scores, nil
}

func parseRecord(rec []string) (contracts.StockScore, error) {
	s := contracts.StockScore{
		Name:           rec[colName],
		Code:           rec[colCode],
		VolumeLabel:    rec[colVolumeLabel],
		MarketCapLabel: rec[colMarketCap],
	}

	price, err := strconv.ParseInt(rec[colPrice], 10, 64)
	if err != nil {
		return s, fmt.Errorf("parse %s: %w", Header[colPrice], err)
	}
	s.Price = price

	floats := []struct {
		col int
		dst *float64
	}{
		{colChange, &s.ChangePercent},
		{colInstitution, &s.Institution},
		{colVolume, &s.Volume},
		{colNews, &s.News},
		{colProgram, &s.Program},
		{colTechnical, &s.Technical},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(rec[f.col], 64)
		if err != nil {
			return s, fmt.Errorf("parse %s: %w", Header[f.col], err)
		}
		*f.dst = v
	}

	total, err := strconv.ParseFloat(rec[colTotal], 64)
	if err != nil {
		return s, fmt.Errorf("parse %s: %w", Header[colTotal], err)
	}
	// 총점은 formatScore로 반올림되어 저장됨
	if math.Abs(total-roundScore(s.Total())) > totalTolerance {
		return s, fmt.Errorf("%w: %s has %v, sub-scores sum to %v", ErrTotalMismatch, s.Code, total, s.Total())
	}

	if _, err := contracts.ParseTier(rec[colTier]); err != nil {
		return s, fmt.Errorf("parse %s: %w", Header[colTier], err)
	}

	return s, nil
}

func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
