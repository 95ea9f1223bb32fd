package builder

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// InstrumentRow is one row of the instrument definition table.
type InstrumentRow struct {
	Name           string
	Type           string
	Curve          string
	ForecastCurveL string
	ForecastCurveR string
	DiscountCurveL string
	DiscountCurveR string
	ConventionL    string
	ConventionR    string
	Start          string
	Length         string
	Enabled        string
}

// CurveRow is one row of the curve-properties table.
type CurveRow struct {
	Curve         string
	Interpolation string
	SolveStage    int
}

var instrumentColumns = []string{
	"Name", "Type", "Curve",
	"Forecast Curve Left", "Forecast Curve Right",
	"Discount Curve Left", "Discount Curve Right",
	"Convention Left", "Convention Right",
	"Start", "Length", "Enabled",
}

// LoadInstrumentRows parses the instrument definition CSV table.
func LoadInstrumentRows(r io.Reader) ([]InstrumentRow, error) {
	rows, err := readTable(r, instrumentColumns)
	if err != nil {
		return nil, err
	}
	out := make([]InstrumentRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, InstrumentRow{
			Name:           row["Name"],
			Type:           row["Type"],
			Curve:          row["Curve"],
			ForecastCurveL: row["Forecast Curve Left"],
			ForecastCurveR: row["Forecast Curve Right"],
			DiscountCurveL: row["Discount Curve Left"],
			DiscountCurveR: row["Discount Curve Right"],
			ConventionL:    row["Convention Left"],
			ConventionR:    row["Convention Right"],
			Start:          row["Start"],
			Length:         row["Length"],
			Enabled:        row["Enabled"],
		})
	}
	return out, nil
}

// LoadCurveRows parses the curve-properties CSV table.
func LoadCurveRows(r io.Reader) ([]CurveRow, error) {
	rows, err := readTable(r, []string{"Curve", "Interpolation", "Solve Stage"})
	if err != nil {
		return nil, err
	}
	out := make([]CurveRow, 0, len(rows))
	for _, row := range rows {
		stage, err := strconv.Atoi(row["Solve Stage"])
		if err != nil {
			return nil, fmt.Errorf("%w: curve %s: unable to parse solve stage %q", ErrInput, row["Curve"], row["Solve Stage"])
		}
		out = append(out, CurveRow{
			Curve:         row["Curve"],
			Interpolation: row["Interpolation"],
			SolveStage:    stage,
		})
	}
	return out, nil
}

func readTable(r io.Reader, required []string) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read table: %v", ErrInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrInput)
	}
	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", ErrInput, name)
		}
	}
	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := make(map[string]string, len(required))
		for _, name := range required {
			m[name] = row[col[name]]
		}
		out = append(out, m)
	}
	return out, nil
}
