package feed

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/zhuoyikang/finance/types"
)

// LoadCSV reads bars from a file with the columns
// timestamp,open,high,low,close[,volume]. The timestamp is either unix
// milliseconds or RFC3339. A header row is skipped.
func LoadCSV(path string) ([]types.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	bars, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return bars, nil
}

// ReadCSV is LoadCSV over an arbitrary reader.
func ReadCSV(r io.Reader) ([]types.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var bars []types.Bar
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line+1)
		}
		line++
		if len(rec) < 5 {
			return nil, errors.Errorf("line %d: expected at least 5 columns, got %d", line, len(rec))
		}
		first := strings.TrimPrefix(strings.TrimSpace(rec[0]), "\ufeff")
		if line == 1 && strings.HasPrefix(strings.ToLower(first), "time") {
			continue
		}
		ts, err := parseTime(first)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		vals := make([]float64, 5)
		for i := 1; i < len(rec) && i <= 5; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d column %d", line, i+1)
			}
			vals[i-1] = v
		}
		bars = append(bars, types.Bar{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}
	return bars, nil
}

func parseTime(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Parse(time.RFC3339, s)
}
