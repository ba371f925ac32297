package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gogirder/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gogirder",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gogirder %s\n", version.String())
		fmt.Println("Precast Girder Lifting and Hauling Analysis")
		fmt.Println("Mast lateral stability (1989, 1993), AASHTO LRFD allowable tension")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
