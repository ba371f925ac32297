package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	haulAnalyzeFiles    []string
	haulAnalyzeSegment  string
	haulAnalyzeLeft     float64
	haulAnalyzeRight    float64
	haulAnalyzeDefaults bool
	haulAnalyzeRegional bool
	haulAnalyzeFc       float64
	haulAnalyzeEc       float64
	haulAnalyzeOut      outputFlags
)

var haulAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Check a segment on two truck bunks",
	Long: `Compute moments and fiber stresses for every impact case and the
factors of safety against cracking, rollover and lateral failure for a
segment hauled with the given bunk overhangs.

Examples:
  # Bunks 3 m from each end
  gogirder haul analyze --file girder.json --left 3

  # Asymmetric bunks with regional dynamic factors
  gogirder haul analyze -f girder.json --left 2.5 --right 4 --regional

  # Agency rule set from a file
  gogirder haul analyze -f girder.json --defaults --criteria rules.json`,
	Run: runHaulAnalyze,
}

func init() {
	haulCmd.AddCommand(haulAnalyzeCmd)

	haulAnalyzeCmd.Flags().StringSliceVarP(&haulAnalyzeFiles, "file", "f", nil, "Segment JSON file(s) [required]")
	haulAnalyzeCmd.Flags().StringVarP(&haulAnalyzeSegment, "segment", "s", "", "Segment key group/girder/segment (when several are loaded)")
	haulAnalyzeCmd.MarkFlagRequired("file")

	// Support flags
	haulAnalyzeCmd.Flags().Float64VarP(&haulAnalyzeLeft, "left", "l", 0, "Left bunk distance from the segment end (m)")
	haulAnalyzeCmd.Flags().Float64VarP(&haulAnalyzeRight, "right", "r", -1, "Right bunk distance from the segment end (m), defaults to --left")
	haulAnalyzeCmd.Flags().BoolVar(&haulAnalyzeDefaults, "defaults", false, "Use the rule set default bunk locations")
	haulAnalyzeCmd.Flags().BoolVar(&haulAnalyzeRegional, "regional", false, "Use overhang/interior dynamic factors")

	// Material overrides
	haulAnalyzeCmd.Flags().Float64Var(&haulAnalyzeFc, "fc", 0, "Override concrete strength f'c (MPa)")
	haulAnalyzeCmd.Flags().Float64Var(&haulAnalyzeEc, "ec", 0, "Override modulus of elasticity Ec (MPa)")

	// Output options
	haulAnalyzeCmd.Flags().BoolVar(&haulAnalyzeOut.diagram, "diagram", false, "Show ASCII moment diagram")
	haulAnalyzeCmd.Flags().StringVarP(&haulAnalyzeOut.image, "output", "o", "", "Export moment and stress diagrams (png, svg, pdf)")
	haulAnalyzeCmd.Flags().StringVar(&haulAnalyzeOut.xlsx, "xlsx", "", "Write results to an xlsx workbook")
}

func runHaulAnalyze(cmd *cobra.Command, args []string) {
	e, _, key, err := newEngine(haulAnalyzeFiles, haulAnalyzeSegment, haulAnalyzeRegional)
	if err != nil {
		fail("%v", err)
	}

	cfg := configuration(haulAnalyzeLeft, haulAnalyzeRight, haulAnalyzeDefaults).WithConcrete(haulAnalyzeFc, haulAnalyzeEc)
	a, err := e.AnalyzeHauling(key, cfg)
	if err != nil {
		fail("%v", err)
	}

	header(fmt.Sprintf("HAULING ANALYSIS - SEGMENT %s", key))
	printArtifact(a, e.Rules())
	writeOutputs(a, nil, e.Rules(), haulAnalyzeOut)
}
