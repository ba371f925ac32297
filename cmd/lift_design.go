package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gogirder/internal/handling"
)

// boundFlags are the search range flags shared by the design commands.
type boundFlags struct {
	min, max           float64
	rightMin, rightMax float64
	threshold          float64
	tolerance          float64
	iterations         int
	fc, ec             float64
}

func (b boundFlags) bounds() handling.Bounds {
	bounds := handling.SymmetricBounds(b.min, b.max)
	if b.rightMin >= 0 {
		bounds.RightMin = b.rightMin
	}
	if b.rightMax >= 0 {
		bounds.RightMax = b.rightMax
	}
	return bounds
}

func (b boundFlags) options() handling.DesignOptions {
	opts := handling.DefaultDesignOptions()
	opts.Threshold = b.threshold
	if b.tolerance > 0 {
		opts.Tolerance = b.tolerance
	}
	if b.iterations > 0 {
		opts.MaxIterations = b.iterations
	}
	opts.Base = handling.Configuration{}.WithConcrete(b.fc, b.ec)
	return opts
}

func addBoundFlags(cmd *cobra.Command, b *boundFlags) {
	cmd.Flags().Float64Var(&b.min, "min", 0, "Minimum overhang at both ends (m)")
	cmd.Flags().Float64Var(&b.max, "max", 0, "Maximum overhang at both ends (m) [required]")
	cmd.Flags().Float64Var(&b.rightMin, "right-min", -1, "Minimum right overhang when it differs from --min (m)")
	cmd.Flags().Float64Var(&b.rightMax, "right-max", -1, "Maximum right overhang when it differs from --max (m)")
	cmd.Flags().Float64Var(&b.threshold, "threshold", 0, "Required factor of safety for every check (default: rule set minimums)")
	cmd.Flags().Float64Var(&b.tolerance, "tolerance", handling.DefaultTolerance, "Search tolerance (m)")
	cmd.Flags().IntVar(&b.iterations, "max-iterations", handling.DefaultMaxIterations, "Iteration limit")
	cmd.Flags().Float64Var(&b.fc, "fc", 0, "Override concrete strength f'c (MPa)")
	cmd.Flags().Float64Var(&b.ec, "ec", 0, "Override modulus of elasticity Ec (MPa)")
	cmd.MarkFlagRequired("max")
}

var (
	liftDesignFiles   []string
	liftDesignSegment string
	liftDesignBounds  boundFlags
	liftDesignOut     outputFlags
)

var liftDesignCmd = &cobra.Command{
	Use:   "design",
	Short: "Find the smallest lift point overhangs that pass",
	Long: `Search the overhang range for the smallest lift point distances at
which the cracking and failure checks pass. Both lift points move
together from their minimum to their maximum.

If no location in the range passes, the best attempt and the failed
checks are reported.

Examples:
  gogirder lift design --file girder.json --min 0.5 --max 5
  gogirder lift design -f girder.json --max 4 --threshold 1.5 --diagram`,
	Run: runLiftDesign,
}

func init() {
	liftCmd.AddCommand(liftDesignCmd)

	liftDesignCmd.Flags().StringSliceVarP(&liftDesignFiles, "file", "f", nil, "Segment JSON file(s) [required]")
	liftDesignCmd.Flags().StringVarP(&liftDesignSegment, "segment", "s", "", "Segment key group/girder/segment (when several are loaded)")
	liftDesignCmd.MarkFlagRequired("file")
	addBoundFlags(liftDesignCmd, &liftDesignBounds)

	liftDesignCmd.Flags().BoolVar(&liftDesignOut.diagram, "diagram", false, "Show ASCII moment diagram of the result")
	liftDesignCmd.Flags().StringVarP(&liftDesignOut.image, "output", "o", "", "Export moment and stress diagrams (png, svg, pdf)")
	liftDesignCmd.Flags().StringVar(&liftDesignOut.xlsx, "xlsx", "", "Write results to an xlsx workbook")
}

func runLiftDesign(cmd *cobra.Command, args []string) {
	e, _, key, err := newEngine(liftDesignFiles, liftDesignSegment, false)
	if err != nil {
		fail("%v", err)
	}

	o, err := e.DesignLifting(key, liftDesignBounds.bounds(), liftDesignBounds.options())
	if err != nil {
		fail("%v", err)
	}

	header(fmt.Sprintf("LIFT POINT DESIGN - SEGMENT %s", key))
	printOutcome(o, e.Rules())
	writeOutputs(o.Artifact, o, e.Rules(), liftDesignOut)
	if err := o.Err(); err != nil {
		fail("%v", err)
	}
}
