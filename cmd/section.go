package cmd

import (
	"github.com/spf13/cobra"
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Girder cross-section properties",
	Long: `Compute the gross properties of polygonal girder cross-sections
defined in JSON files, as used by segment region shapes.

Subcommands:
  properties  - Area, centroid, inertias and flange widths of a shape

Example JSON file structure (m, counter-clockwise):
{
  "name": "Bulb tee",
  "vertices": [
    {"x": -0.35, "y": 0},
    {"x": 0.35, "y": 0},
    {"x": 0.35, "y": 0.15},
    {"x": 0.08, "y": 0.3},
    {"x": 0.08, "y": 1.6},
    {"x": 0.6, "y": 1.7},
    {"x": 0.6, "y": 1.8},
    {"x": -0.6, "y": 1.8},
    {"x": -0.6, "y": 1.7},
    {"x": -0.08, "y": 1.6},
    {"x": -0.08, "y": 0.3},
    {"x": -0.35, "y": 0.15}
  ]
}`,
}

func init() {
	rootCmd.AddCommand(sectionCmd)
}
