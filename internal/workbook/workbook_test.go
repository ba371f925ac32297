package workbook

import (
	"bytes"
	"math"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gogirder/internal/criteria"
	"github.com/alexiusacademia/gogirder/internal/handling"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

func artifact(t *testing.T) *handling.Artifact {
	t.Helper()
	def := &segment.Definition{
		Key:        segment.Key{Group: 1, Girder: 1},
		Length:     20,
		UnitWeight: 24,
		Intervals:  []segment.Interval{{Name: "release", Fc: 35, Ec: 28000}},
		Regions: []segment.Region{{Start: 0, End: 20, Properties: &segment.ExplicitProperties{
			Area: 0.5, Ix: 0.1, Iy: 0.02, Ytop: 0.6, Ybottom: 0.6, TopWidth: 0.8, BottomWidth: 0.6,
		}}},
		TenthPoints: true,
	}
	if err := def.Prepare(); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	cat, err := segment.NewCatalog(def)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	e, err := handling.NewEngine(cat.Providers(), criteria.Standard())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	a, err := e.AnalyzeLifting(def.Key, handling.NewConfiguration(1, 1))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	return a
}

func TestWriteWorkbook(t *testing.T) {
	a := artifact(t)
	var buf bytes.Buffer
	if err := Write(&buf, []Entry{{Artifact: a}, {}}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	summary, err := f.GetRows(SummarySheet)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary) != 2 || summary[1][0] != "1/1/0" || summary[1][1] != "lifting" {
		t.Fatalf("summary rows = %v", summary)
	}
	if got := summary[1][len(summaryHeader)-1]; got != a.ID().String() {
		t.Errorf("summary artifact id = %q, want %q", got, a.ID())
	}

	stresses, err := f.GetRows(StressesSheet)
	if err != nil {
		t.Fatalf("stresses: %v", err)
	}
	if want := 1 + len(a.Stresses()); len(stresses) != want {
		t.Fatalf("got %d stress rows, want %d", len(stresses), want)
	}
	if got := stresses[1][len(stressHeader)-1]; got != a.ID().String() {
		t.Errorf("stress row artifact id = %q, want %q", got, a.ID())
	}
}

func TestNumberWritesInfinity(t *testing.T) {
	if got := number(math.Inf(1)); got != "inf" {
		t.Errorf("number(+Inf) = %v", got)
	}
	if got := number(1.5); got != 1.5 {
		t.Errorf("number(1.5) = %v", got)
	}
}

func jobSheet(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	header := make([]any, len(JobsHeader))
	for i, h := range JobsHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatal(err)
	}
	for i, r := range rows {
		if err := f.SetSheetRow(sheet, cell(1, i+2), &r); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestReadJobs(t *testing.T) {
	buf := jobSheet(t,
		[]any{"0/1/2", "lifting", "analyze", 1.5, 2},
		[]any{"0/1/3", "Hauling", "", 2},
		[]any{"0/1/4", "hauling"},
		[]any{"0/1/5", "lifting", "design", "", "", 0.5, 4, 1.2},
	)
	jobs, err := ReadJobs(buf)
	if err != nil {
		t.Fatalf("ReadJobs: %v", err)
	}
	if len(jobs) != 4 {
		t.Fatalf("got %d jobs, want 4", len(jobs))
	}

	if j := jobs[0]; j.Key != (segment.Key{Group: 0, Girder: 1, Segment: 2}) || j.Config.LeftOverhang != 1.5 || j.Config.RightOverhang != 2 {
		t.Errorf("job 0 = %+v", j)
	}
	if j := jobs[1]; j.Mode != handling.ModeHauling || j.Config.RightOverhang != 2 {
		t.Errorf("job 1 = %+v", j)
	}
	if j := jobs[2]; !j.Config.UseDefaults {
		t.Errorf("job 2 does not use defaults: %+v", j)
	}
	if j := jobs[3]; !j.Design || j.Bounds.LeftMax != 4 || j.Options.Threshold != 1.2 {
		t.Errorf("job 3 = %+v", j)
	}
}

func TestReadJobsRejectsBadRows(t *testing.T) {
	cases := [][]any{
		{"not-a-key", "lifting"},
		{"0/1/2", "crane"},
		{"0/1/2", "lifting", "guess"},
		{"0/1/2", "lifting", "design"},
		{"0/1/2", "lifting", "analyze", "x"},
	}
	for _, row := range cases {
		if _, err := ReadJobs(jobSheet(t, row)); err == nil {
			t.Errorf("row %v accepted", row)
		}
	}
}
