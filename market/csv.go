package market

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadSeriesCSV reads a bar series from a CSV file with the columns
// date,open,high,low,close,volume. A header row is detected and skipped.
// Rows must already be in chronological order; the loader rejects files
// whose dates run backwards so a lane never replays out of order.
func LoadSeriesCSV(path, symbol string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read bars %s: %w", path, err)
	}

	s := &Series{Symbol: symbol}
	lastDate := 0
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		bar, err := parseBar(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		if bar.Date <= lastDate {
			return nil, fmt.Errorf("%s line %d: date %d not ascending", path, i+1, bar.Date)
		}
		lastDate = bar.Date
		s.Bars = append(s.Bars, bar)
	}
	return s, nil
}

func isHeader(row []string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(row[0]))
	return err != nil
}

func parseBar(row []string) (Bar, error) {
	var bar Bar
	var err error
	if bar.Date, err = strconv.Atoi(strings.TrimSpace(row[0])); err != nil {
		return bar, fmt.Errorf("bad date %q", row[0])
	}
	cols := []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume}
	for i, dst := range cols {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return bar, fmt.Errorf("bad value %q", row[i+1])
		}
		*dst = v
	}
	return bar, nil
}
