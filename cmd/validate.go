package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suderio/loot-table/internal/rules"
)

var validateCmd = &cobra.Command{
	Use:   "validate [table]",
	Short: "Check a loot table for configuration faults",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := settings()
		def := loadDefinition(cfg, args[0])

		diags := def.Tree.Validate()
		registry, err := rules.NewRegistry(nil)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		diags = append(diags, registry.Validate(def.Tree)...)

		if len(diags) == 0 {
			fmt.Printf("%s: %d variables, %d tables, %d index rules, %d formulas. OK\n",
				def.Name, len(def.Tree.Variables), len(def.Tree.Tables), len(def.Tree.Index), len(rules.Formulas(def.Tree)))
			return
		}
		for _, d := range diags {
			fmt.Println(warnStyle.Render(d.String()))
		}
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
