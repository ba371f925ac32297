package cmd

import (
	"github.com/spf13/cobra"
)

var liftCmd = &cobra.Command{
	Use:   "lift",
	Short: "Lifting analysis and lift point design",
	Long: `Check a precast segment lifted from the casting bed on two lift
points, using the concrete properties of its lifting interval.

Subcommands:
  analyze  - Check a given pair of lift point locations
  design   - Find the smallest lift point overhangs that pass every check

The segment is defined in a JSON file:
{
  "name": "W74G",
  "key": {"group": 0, "girder": 1, "segment": 0},
  "length": 30,
  "unit_weight": 24.5,
  "intervals": [{"name": "release", "fc": 28, "ec": 25000}],
  "regions": [{"start": 0, "end": 30,
               "properties": {"area": 0.6, "ix": 0.25, "iy": 0.02,
                              "ytop": 0.9, "ybottom": 0.9,
                              "top_width": 1.0, "bottom_width": 0.65}}],
  "tenth_points": true
}`,
}

func init() {
	rootCmd.AddCommand(liftCmd)
}
