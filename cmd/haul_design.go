package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	haulDesignFiles    []string
	haulDesignSegment  string
	haulDesignRegional bool
	haulDesignBounds   boundFlags
	haulDesignOut      outputFlags
)

var haulDesignCmd = &cobra.Command{
	Use:   "design",
	Short: "Find the smallest bunk overhangs that pass",
	Long: `Search the overhang range for the smallest truck bunk distances at
which the cracking, rollover and failure checks pass.

Examples:
  gogirder haul design --file girder.json --min 1 --max 6
  gogirder haul design -f girder.json --max 5 --right-max 3 --regional`,
	Run: runHaulDesign,
}

func init() {
	haulCmd.AddCommand(haulDesignCmd)

	haulDesignCmd.Flags().StringSliceVarP(&haulDesignFiles, "file", "f", nil, "Segment JSON file(s) [required]")
	haulDesignCmd.Flags().StringVarP(&haulDesignSegment, "segment", "s", "", "Segment key group/girder/segment (when several are loaded)")
	haulDesignCmd.MarkFlagRequired("file")
	haulDesignCmd.Flags().BoolVar(&haulDesignRegional, "regional", false, "Use overhang/interior dynamic factors")
	addBoundFlags(haulDesignCmd, &haulDesignBounds)

	haulDesignCmd.Flags().BoolVar(&haulDesignOut.diagram, "diagram", false, "Show ASCII moment diagram of the result")
	haulDesignCmd.Flags().StringVarP(&haulDesignOut.image, "output", "o", "", "Export moment and stress diagrams (png, svg, pdf)")
	haulDesignCmd.Flags().StringVar(&haulDesignOut.xlsx, "xlsx", "", "Write results to an xlsx workbook")
}

func runHaulDesign(cmd *cobra.Command, args []string) {
	e, _, key, err := newEngine(haulDesignFiles, haulDesignSegment, haulDesignRegional)
	if err != nil {
		fail("%v", err)
	}

	o, err := e.DesignHauling(key, haulDesignBounds.bounds(), haulDesignBounds.options())
	if err != nil {
		fail("%v", err)
	}

	header(fmt.Sprintf("TRUCK BUNK DESIGN - SEGMENT %s", key))
	printOutcome(o, e.Rules())
	writeOutputs(o.Artifact, o, e.Rules(), haulDesignOut)
	if err := o.Err(); err != nil {
		fail("%v", err)
	}
}
