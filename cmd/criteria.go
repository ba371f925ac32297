package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gogirder/internal/criteria"
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "List and show handling rule sets",
	Long: `Rule sets hold allowable tension coefficients, impact factors,
tolerances, truck data and required factors of safety.

A rule set file is JSON with the layout printed by 'criteria show';
fields left out keep the standard values.

Examples:
  gogirder criteria list
  gogirder criteria show regional
  gogirder criteria show standard > rules.json`,
}

var criteriaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in rule sets",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range criteria.PresetNames() {
			r := criteria.Presets[name]()
			fmt.Printf("  %-10s %s\n", name, r.Description)
		}
	},
}

var criteriaShowCmd = &cobra.Command{
	Use:   "show [name|file]",
	Short: "Print a rule set as JSON",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := rootCriteria
		if len(args) == 1 {
			name = args[0]
		}
		rules, err := criteria.Resolve(name)
		if err != nil {
			fail("%v", err)
		}
		data, err := json.MarshalIndent(rules, "", "  ")
		if err != nil {
			fail("%v", err)
		}
		fmt.Println(string(data))
	},
}

func init() {
	rootCmd.AddCommand(criteriaCmd)
	criteriaCmd.AddCommand(criteriaListCmd)
	criteriaCmd.AddCommand(criteriaShowCmd)
}
