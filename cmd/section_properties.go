package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gogirder/internal/section"
)

var (
	sectionFile   string
	sectionWidth  float64
	sectionHeight float64
	sectionWeight float64
)

var sectionPropertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "Compute gross properties of a girder shape",
	Long: `Calculate area, centroid, strong and weak axis moments of inertia,
extreme fiber distances and flange widths of a polygonal shape.

Examples:
  gogirder section properties --file bulb-tee.json
  gogirder section properties --width 0.6 --height 1.5 --unit-weight 24.5`,
	Run: runSectionProperties,
}

func init() {
	sectionCmd.AddCommand(sectionPropertiesCmd)

	sectionPropertiesCmd.Flags().StringVarP(&sectionFile, "file", "f", "", "Path to shape JSON file")
	sectionPropertiesCmd.Flags().Float64VarP(&sectionWidth, "width", "b", 0, "Rectangle width (m) when no file is given")
	sectionPropertiesCmd.Flags().Float64Var(&sectionHeight, "height", 0, "Rectangle height (m) when no file is given")
	sectionPropertiesCmd.Flags().Float64Var(&sectionWeight, "unit-weight", 0, "Concrete unit weight (kN/m³) for the self-weight line")
}

func runSectionProperties(cmd *cobra.Command, args []string) {
	var shape *section.Shape
	switch {
	case sectionFile != "":
		s, err := section.LoadFromFile(sectionFile)
		if err != nil {
			fail("loading section: %v", err)
		}
		shape = s
	case sectionWidth > 0 && sectionHeight > 0:
		s := section.Rectangle(sectionWidth, sectionHeight)
		shape = &s
	default:
		fail("give --file or both --width and --height")
	}

	props := shape.CalculateProperties()

	header("GIRDER SECTION PROPERTIES")
	if shape.Name != "" {
		fmt.Printf("  Section: %s\n", shape.Name)
		fmt.Println()
	}

	heading("GEOMETRY:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Vertices:\t%d\n", len(shape.Vertices))
	fmt.Fprintf(w, "  Height:\t%.4f m\n", props.Height)
	fmt.Fprintf(w, "  Maximum width:\t%.4f m\n", props.Width)
	fmt.Fprintf(w, "  Top flange width:\t%.4f m\n", props.TopWidth)
	fmt.Fprintf(w, "  Bottom flange width:\t%.4f m\n", props.BottomWidth)
	w.Flush()
	fmt.Println()

	heading("GROSS PROPERTIES:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Area (Ag):\t%.6f m²\n", props.Area)
	fmt.Fprintf(w, "  Centroid (x, y):\t(%.4f, %.4f) m\n", props.CentroidX, props.CentroidY)
	fmt.Fprintf(w, "  Ix (strong axis):\t%.6e m⁴\n", props.Ix)
	fmt.Fprintf(w, "  Iy (weak axis):\t%.6e m⁴\n", props.Iy)
	fmt.Fprintf(w, "  Ytop:\t%.4f m\n", props.Ytop)
	fmt.Fprintf(w, "  Ybottom:\t%.4f m\n", props.Ybottom)
	fmt.Fprintf(w, "  Section modulus top (St):\t%.6e m³\n", props.Ix/props.Ytop)
	fmt.Fprintf(w, "  Section modulus bottom (Sb):\t%.6e m³\n", props.Ix/props.Ybottom)
	if sectionWeight > 0 {
		fmt.Fprintf(w, "  Self-weight:\t%.3f kN/m\n", props.Area*sectionWeight)
	}
	w.Flush()
	fmt.Println()
}
