package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"worldmap/internal/geom"
)

var tableHeader = []string{"id", "x", "y", "area", "width", "height"}

func rounded(m geom.FeatureMetric) geom.FeatureMetric {
	return geom.FeatureMetric{
		ID:     m.ID,
		X:      geom.Round2(m.X),
		Y:      geom.Round2(m.Y),
		Area:   geom.Round2(m.Area),
		Width:  geom.Round2(m.Width),
		Height: geom.Round2(m.Height),
	}
}

// WriteTableJSON writes the table as an indented JSON array.
func WriteTableJSON(w io.Writer, table []geom.FeatureMetric) error {
	out := make([]geom.FeatureMetric, len(table))
	for i, m := range table {
		out[i] = rounded(m)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func ReadTableJSON(r io.Reader) ([]geom.FeatureMetric, error) {
	var table []geom.FeatureMetric
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	return table, nil
}

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func WriteTableCSV(w io.Writer, table []geom.FeatureMetric) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeader); err != nil {
		return err
	}
	for _, m := range table {
		m = rounded(m)
		if err := cw.Write([]string{m.ID, fmtNum(m.X), fmtNum(m.Y), fmtNum(m.Area), fmtNum(m.Width), fmtNum(m.Height)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTableCSV finds columns by header name, case-insensitively. id, x, y and
// area are required; width and height default to 0. Rows with unparsable
// numbers are skipped.
func ReadTableCSV(r io.Reader) ([]geom.FeatureMetric, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	if len(recs) == 0 {
		return nil, errors.New("table: empty csv")
	}
	idx := map[string]int{}
	for i, h := range recs[0] {
		h = strings.ToLower(strings.TrimSpace(h))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, col := range tableHeader[:4] {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("table: missing column %q", col)
		}
	}
	num := func(row []string, col string) (float64, bool) {
		i, ok := idx[col]
		if !ok {
			return 0, true
		}
		if i >= len(row) {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		return v, err == nil
	}
	table := make([]geom.FeatureMetric, 0, len(recs)-1)
	for _, row := range recs[1:] {
		if idx["id"] >= len(row) {
			continue
		}
		x, ok1 := num(row, "x")
		y, ok2 := num(row, "y")
		area, ok3 := num(row, "area")
		w, ok4 := num(row, "width")
		h, ok5 := num(row, "height")
		if !(ok1 && ok2 && ok3 && ok4 && ok5) {
			continue
		}
		table = append(table, geom.FeatureMetric{ID: row[idx["id"]], X: x, Y: y, Area: area, Width: w, Height: h})
	}
	return table, nil
}

// ReadTable reads a .json or .csv metrics table from disk.
func ReadTable(path string) ([]geom.FeatureMetric, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ReadTableCSV(f)
	}
	return ReadTableJSON(f)
}

// WriteTable writes a .csv table when path ends in .csv, JSON otherwise.
func WriteTable(path string, table []geom.FeatureMetric) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		err = WriteTableCSV(f, table)
	} else {
		err = WriteTableJSON(f, table)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
