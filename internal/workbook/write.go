// Package workbook writes handling results to xlsx workbooks and reads batch
// job sheets.
package workbook

import (
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gogirder/internal/handling"
)

// Sheet names
const (
	SummarySheet  = "Summary"
	StressesSheet = "Stresses"
	JobsSheet     = "Jobs"
)

var summaryHeader = []any{
	"Segment", "Mode", "Left overhang (m)", "Right overhang (m)",
	"FS cracking", "FS failure", "FS rollover", "Passed",
	"Design status", "Design state", "Governing", "Warnings",
	"Left reaction (kN)", "Right reaction (kN)", "Max deflection (m)", "Artifact",
}

var stressHeader = []any{
	"Segment", "Mode", "POI", "Station (m)", "Attributes", "Case", "Region",
	"Moment (kN·m)", "Top (MPa)", "Bottom (MPa)", "Artifact",
}

// Entry is one row group of the workbook. Outcome is nil for analyses.
type Entry struct {
	Artifact *handling.Artifact
	Outcome  *handling.DesignOutcome
}

// Write writes a workbook with a summary sheet and a stress sheet.
func Write(w io.Writer, entries []Entry) error {
	f, err := build(entries)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Save writes the workbook to path.
func Save(path string, entries []Entry) error {
	f, err := build(entries)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func build(entries []Entry) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(StressesSheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(SummarySheet, "A1", &summaryHeader); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(StressesSheet, "A1", &stressHeader); err != nil {
		f.Close()
		return nil, err
	}

	summaryRow, stressRow := 2, 2
	for _, e := range entries {
		a := e.Artifact
		if a == nil {
			continue
		}
		row := summary(e)
		if err := f.SetSheetRow(SummarySheet, cell(1, summaryRow), &row); err != nil {
			f.Close()
			return nil, err
		}
		summaryRow++

		for _, s := range a.Stresses() {
			r := []any{
				a.Key().String(), string(a.Mode()), s.POI.ID, s.POI.Station, s.POI.Attributes.String(),
				string(s.Case), s.Region.String(), s.Moment, s.Top, s.Bottom, a.ID().String(),
			}
			if err := f.SetSheetRow(StressesSheet, cell(1, stressRow), &r); err != nil {
				f.Close()
				return nil, err
			}
			stressRow++
		}
	}
	return f, nil
}

func summary(e Entry) []any {
	a := e.Artifact
	cfg := a.Configuration()
	var cracking, failure, rollover any = "", "", ""
	if l, ok := a.Lifting(); ok {
		cracking, failure = number(l.FSCracking), number(l.FSFailure)
	}
	if h, ok := a.Hauling(); ok {
		cracking, failure, rollover = number(h.FSCracking), number(h.FSFailure), number(h.FSRollover)
	}

	left, right := a.SupportReactions()
	status, state := "", ""
	warnings := a.Warnings()
	if e.Outcome != nil {
		status, state = e.Outcome.Status.String(), e.Outcome.State.String()
		warnings = append(warnings, e.Outcome.Warnings...)
		if e.Outcome.Reason != "" {
			warnings = append(warnings, e.Outcome.Reason)
		}
	}
	return []any{
		a.Key().String(), string(a.Mode()), cfg.LeftOverhang, cfg.RightOverhang,
		cracking, failure, rollover, a.Passed(),
		status, state, a.ControllingSection(), strings.Join(warnings, "; "),
		left, right, a.MaxDeflection(), a.ID().String(),
	}
}

// number keeps infinite factors readable in the sheet.
func number(v float64) any {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return v
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
