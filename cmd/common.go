package cmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/alexiusacademia/gogirder/internal/criteria"
	"github.com/alexiusacademia/gogirder/internal/diagram"
	"github.com/alexiusacademia/gogirder/internal/handling"
	"github.com/alexiusacademia/gogirder/internal/segment"
	"github.com/alexiusacademia/gogirder/internal/workbook"
)

const rule = "───────────────────────────────────────────────────────────────"

// outputFlags are the report options shared by analysis and design commands.
type outputFlags struct {
	diagram bool
	image   string
	xlsx    string
}

// fail prints an error and exits with status 1.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadCatalog loads every segment file into one catalog.
func loadCatalog(files []string) (*segment.Catalog, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one segment file is required")
	}
	defs := make([]*segment.Definition, 0, len(files))
	for _, f := range files {
		def, err := segment.LoadFromFile(f)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
		defs = append(defs, def)
	}
	return segment.NewCatalog(defs...)
}

// selectKey returns the requested segment, or the only one when none is named.
func selectKey(cat *segment.Catalog, key string) (segment.Key, error) {
	if key == "" {
		keys := cat.Keys()
		if len(keys) != 1 {
			return segment.Key{}, fmt.Errorf("%d segments loaded; choose one with --segment", len(keys))
		}
		return keys[0], nil
	}
	return segment.ParseKey(key)
}

// loadRules resolves --criteria and optionally switches hauling to the
// regional dynamic factors.
func loadRules(regional bool) (criteria.Rules, error) {
	rules, err := criteria.Resolve(rootCriteria)
	if err != nil {
		return rules, err
	}
	if regional && rules.Hauling.Regional == nil {
		r := criteria.Regional().Hauling
		rules.Hauling.Regional = r.Regional
		rules.Hauling.ImpactUp, rules.Hauling.ImpactDown = r.ImpactUp, r.ImpactDown
	}
	return rules, nil
}

func newEngine(files []string, key string, regional bool) (*handling.Engine, *segment.Catalog, segment.Key, error) {
	cat, err := loadCatalog(files)
	if err != nil {
		return nil, nil, segment.Key{}, err
	}
	k, err := selectKey(cat, key)
	if err != nil {
		return nil, nil, segment.Key{}, err
	}
	rules, err := loadRules(regional)
	if err != nil {
		return nil, nil, segment.Key{}, err
	}
	e, err := handling.NewEngine(cat.Providers(), rules)
	if err != nil {
		return nil, nil, segment.Key{}, err
	}
	return e, cat, k, nil
}

// fmtFS formats a factor of safety.
func fmtFS(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.3f", v)
}

func mark(c handling.Check) string {
	if c.Passed() {
		return "✓"
	}
	return "✗"
}

func header(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     %s\n", title)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
}

func heading(title string) {
	fmt.Println(title)
	fmt.Println(rule)
}

// printArtifact prints the full report of one analysis.
func printArtifact(a *handling.Artifact, rules criteria.Rules) {
	cfg := a.Configuration()

	heading("INPUT DATA:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Artifact:\t%s\n", a.ID())
	fmt.Fprintf(w, "  Segment:\t%s\n", a.Key())
	fmt.Fprintf(w, "  Rule set:\t%s\n", rules.Name)
	fmt.Fprintf(w, "  Length:\t%.3f m\n", a.Length())
	fmt.Fprintf(w, "  Left overhang:\t%.3f m\n", cfg.LeftOverhang)
	fmt.Fprintf(w, "  Right overhang:\t%.3f m\n", cfg.RightOverhang)
	fmt.Fprintf(w, "  Span between supports:\t%.3f m\n", a.Length()-cfg.LeftOverhang-cfg.RightOverhang)
	fmt.Fprintf(w, "  f'c:\t%.1f MPa\n", a.Concrete().Fc)
	fmt.Fprintf(w, "  Ec:\t%.0f MPa\n", a.Concrete().Ec)
	fmt.Fprintf(w, "  Load scaling:\t%s\n", a.Policy())
	w.Flush()
	fmt.Println()

	heading("STABILITY:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if f, ok := a.Lifting(); ok {
		fmt.Fprintf(w, "  Weight (W):\t%.2f kN\n", f.Weight)
		fmt.Fprintf(w, "  Lateral deflection (zo):\t%.5f m\n", f.LateralDeflection)
		fmt.Fprintf(w, "  Roll axis height (yr):\t%.4f m\n", f.RollAxisHeight)
		fmt.Fprintf(w, "  Eccentricity (ei):\t%.5f m\n", f.Eccentricity)
		fmt.Fprintf(w, "  Initial tilt (θi):\t%.5f rad\n", f.InitialTilt)
		fmt.Fprintf(w, "  Equilibrium tilt (θeq):\t%s rad\n", fmtFS(f.EquilibriumTilt))
		fmt.Fprintf(w, "  Failure tilt (θ'max):\t%.5f rad\n", f.FailureTilt)
	}
	if f, ok := a.Hauling(); ok {
		fmt.Fprintf(w, "  Weight (W):\t%.2f kN\n", f.Weight)
		fmt.Fprintf(w, "  Lateral deflection (zo):\t%.5f m\n", f.LateralDeflection)
		fmt.Fprintf(w, "  Eccentricity (ei):\t%.5f m\n", f.Eccentricity)
		fmt.Fprintf(w, "  Radius of stability (r):\t%.3f m\n", f.StabilityRadius)
		fmt.Fprintf(w, "  Centroid above roll center (y):\t%.4f m\n", f.CentroidHeight)
		fmt.Fprintf(w, "  Wind moment (Mw):\t%.2f kN·m\n", f.WindMoment)
		fmt.Fprintf(w, "  Equilibrium tilt (θeq):\t%s rad\n", fmtFS(f.EquilibriumTilt))
		fmt.Fprintf(w, "  Rollover tilt (θmax):\t%.5f rad\n", f.RolloverTilt)
	}
	w.Flush()
	fmt.Println()

	left, right := a.SupportReactions()
	heading("SELF-WEIGHT RESPONSE:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Left support reaction:\t%.2f kN\n", left)
	fmt.Fprintf(w, "  Right support reaction:\t%.2f kN\n", right)
	fmt.Fprintf(w, "  Max vertical deflection:\t%.5f m\n", a.MaxDeflection())
	w.Flush()
	fmt.Println()

	heading("STRESSES (MPa, tension positive):")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  Station (m)\tCase\tRegion\tM (kN·m)\tTop\tBottom\t")
	for _, s := range a.Stresses() {
		fmt.Fprintf(w, "  %.3f\t%s\t%s\t%.2f\t%.3f\t%.3f\t\n", s.POI.Station, s.Case, s.Region, s.Moment, s.Top, s.Bottom)
	}
	w.Flush()
	fmt.Println()

	heading("FACTORS OF SAFETY:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, c := range a.Checks() {
		fmt.Fprintf(w, "  %s:\t%s\t(min %.2f)\t%s\n", titleCase(c.Name), fmtFS(c.Value), c.Required, mark(c))
	}
	w.Flush()
	fmt.Printf("  Governing: %s\n", a.ControllingSection())
	fmt.Println()

	if warns := a.Warnings(); len(warns) > 0 {
		heading("WARNINGS:")
		for _, msg := range warns {
			fmt.Printf("  ⚠ %s\n", msg)
		}
		fmt.Println()
	}

	status := "ALL CHECKS PASS"
	if !a.Passed() {
		status = "ONE OR MORE CHECKS FAIL"
	}
	fmt.Print(diagram.DrawSummaryBox(strings.ToUpper(string(a.Mode()))+" RESULT", []string{status}))
	fmt.Println()
}

// printOutcome prints a design search result followed by its artifact.
func printOutcome(o *handling.DesignOutcome, rules criteria.Rules) {
	heading("DESIGN SEARCH:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Status:\t%s\n", o.Status)
	fmt.Fprintf(w, "  State:\t%s\n", o.State)
	fmt.Fprintf(w, "  Trials:\t%d\n", o.Iterations)
	fmt.Fprintf(w, "  Left overhang:\t%.3f m\n", o.Configuration.LeftOverhang)
	fmt.Fprintf(w, "  Right overhang:\t%.3f m\n", o.Configuration.RightOverhang)
	fmt.Fprintf(w, "  Reason:\t%s\n", o.Reason)
	w.Flush()
	for _, msg := range o.Warnings {
		fmt.Printf("  ⚠ %s\n", msg)
	}
	fmt.Println()

	if o.Artifact != nil {
		printArtifact(o.Artifact, rules)
	}
}

// diagramData collects the envelope series of an artifact.
func diagramData(a *handling.Artifact, rules criteria.Rules) diagram.SegmentDiagramData {
	cfg := a.Configuration()
	data := diagram.SegmentDiagramData{
		Title:         fmt.Sprintf("Segment %s %s", a.Key(), a.Mode()),
		Length:        a.Length(),
		LeftOverhang:  cfg.LeftOverhang,
		RightOverhang: cfg.RightOverhang,
	}
	tension := rules.Lifting.Tension
	if a.Mode() == handling.ModeHauling {
		tension = rules.Hauling.Tension
	}
	fc := a.Concrete().Fc
	data.AllowableTension = tension.Allowable(fc, false)
	data.AllowableCompression = -criteria.AllowableCompression(fc)

	env := a.Envelope()
	series := func(name string, value func(handling.EnvelopePoint) float64) diagram.Series {
		s := diagram.Series{Name: name}
		for _, p := range env {
			s.Stations = append(s.Stations, p.POI.Station)
			s.Values = append(s.Values, value(p))
		}
		return s
	}
	data.Moments = []diagram.Series{
		series("max", func(p handling.EnvelopePoint) float64 { return p.MaxMoment }),
		series("min", func(p handling.EnvelopePoint) float64 { return p.MinMoment }),
	}
	data.Top = []diagram.Series{
		series("max", func(p handling.EnvelopePoint) float64 { return p.MaxTop }),
		series("min", func(p handling.EnvelopePoint) float64 { return p.MinTop }),
	}
	data.Bottom = []diagram.Series{
		series("max", func(p handling.EnvelopePoint) float64 { return p.MaxBottom }),
		series("min", func(p handling.EnvelopePoint) float64 { return p.MinBottom }),
	}
	return data
}

// writeOutputs prints the text diagram and writes the requested files.
func writeOutputs(a *handling.Artifact, o *handling.DesignOutcome, rules criteria.Rules, out outputFlags) {
	if a == nil {
		return
	}
	data := diagramData(a, rules)
	if out.diagram {
		fmt.Print(diagram.DrawMomentDiagram(data, diagram.DefaultASCIIOptions()))
		fmt.Println()
	}
	if out.image != "" {
		if err := diagram.ExportMomentDiagram(data, out.image); err != nil {
			fmt.Printf("Error exporting moment diagram: %v\n", err)
		} else {
			fmt.Printf("  Moment diagram exported to: %s\n", out.image)
		}
		stress := stressImageName(out.image)
		if err := diagram.ExportStressDiagram(data, stress); err != nil {
			fmt.Printf("Error exporting stress diagram: %v\n", err)
		} else {
			fmt.Printf("  Stress diagram exported to: %s\n", stress)
		}
	}
	if out.xlsx != "" {
		if err := workbook.Save(out.xlsx, []workbook.Entry{{Artifact: a, Outcome: o}}); err != nil {
			fmt.Printf("Error writing workbook: %v\n", err)
		} else {
			fmt.Printf("  Workbook written to: %s\n", out.xlsx)
		}
	}
}

// stressImageName derives the stress diagram file from the moment diagram file.
func stressImageName(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return name + "-stress"
	}
	return strings.TrimSuffix(name, ext) + "-stress" + ext
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
