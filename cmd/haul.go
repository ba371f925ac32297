package cmd

import (
	"github.com/spf13/cobra"
)

var haulCmd = &cobra.Command{
	Use:   "haul",
	Short: "Hauling analysis and truck bunk design",
	Long: `Check a precast segment shipped on a truck with two bunk supports,
using the concrete properties of its hauling interval.

Subcommands:
  analyze  - Check a given pair of bunk locations
  design   - Find the smallest bunk overhangs that pass every check

Hauling checks cracking under impact, rollover of the vehicle and
lateral failure of the segment at the rollover tilt. With --regional
(or the regional rule set) overhang and interior regions take separate
dynamic factors and side wind acts on the girder.`,
}

func init() {
	rootCmd.AddCommand(haulCmd)
}
