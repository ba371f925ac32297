package workbook

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gogirder/internal/batch"
	"github.com/alexiusacademia/gogirder/internal/handling"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

// JobsHeader is the expected first row of a job sheet. Empty overhangs on an
// analyze row use the rule defaults.
var JobsHeader = []string{"segment", "mode", "action", "left", "right", "min", "max", "threshold"}

// ReadJobs reads batch jobs from the first sheet of a workbook.
func ReadJobs(r io.Reader) ([]batch.Job, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no jobs", sheet)
	}

	var jobs []batch.Job
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		job, err := parseJobRow(row)
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// WriteJobsTemplate writes an empty job sheet with its header.
func WriteJobsTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), JobsSheet); err != nil {
		return err
	}
	header := make([]any, len(JobsHeader))
	for i, h := range JobsHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(JobsSheet, "A1", &header); err != nil {
		return err
	}
	return f.Write(w)
}

func parseJobRow(row []string) (batch.Job, error) {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	num := func(i int) (float64, bool, error) {
		s := col(i)
		if s == "" {
			return 0, false, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("column %s: %w", JobsHeader[i], err)
		}
		return v, true, nil
	}

	var job batch.Job
	key, err := segment.ParseKey(col(0))
	if err != nil {
		return job, err
	}
	job.Key = key

	switch m := handling.Mode(strings.ToLower(col(1))); m {
	case handling.ModeLifting, handling.ModeHauling:
		job.Mode = m
	default:
		return job, fmt.Errorf("unknown mode %q", col(1))
	}

	switch strings.ToLower(col(2)) {
	case "", "analyze":
	case "design":
		job.Design = true
	default:
		return job, fmt.Errorf("unknown action %q", col(2))
	}

	left, hasLeft, err := num(3)
	if err != nil {
		return job, err
	}
	right, hasRight, err := num(4)
	if err != nil {
		return job, err
	}
	lo, _, err := num(5)
	if err != nil {
		return job, err
	}
	hi, hasHi, err := num(6)
	if err != nil {
		return job, err
	}
	threshold, _, err := num(7)
	if err != nil {
		return job, err
	}

	if job.Design {
		if !hasHi {
			return job, fmt.Errorf("design rows need a max overhang")
		}
		job.Bounds = handling.SymmetricBounds(lo, hi)
		job.Options = handling.DefaultDesignOptions()
		job.Options.Threshold = threshold
		return job, nil
	}

	switch {
	case !hasLeft && !hasRight:
		job.Config = handling.DefaultConfiguration()
	case hasLeft && !hasRight:
		job.Config = handling.NewConfiguration(left, left)
	default:
		job.Config = handling.NewConfiguration(left, right)
	}
	return job, nil
}
