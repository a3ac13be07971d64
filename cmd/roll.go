/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/suderio/loot-table/internal/engine"
	"github.com/suderio/loot-table/internal/persistence"
	"github.com/suderio/loot-table/internal/session"
)

// rollCmd represents the roll command
var rollCmd = &cobra.Command{
	Use:   "roll [table]",
	Short: "Generate magic items from a loot table",
	Long: `Loads a loot table by name or path (default: the bundled "weapons"
table), applies the file's seeds and any --set seeds, and rolls --count items.

  loot-table roll weapons --set Item_Category=Major
  loot-table roll ./tables/armor.xml --count 20 --seed 7 --save`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ref := "weapons"
		if len(args) == 1 {
			ref = args[0]
		}
		sets, _ := cmd.Flags().GetStringArray("set")
		count, _ := cmd.Flags().GetInt("count")
		seed, _ := cmd.Flags().GetInt64("seed")
		save, _ := cmd.Flags().GetBool("save")
		asJSON, _ := cmd.Flags().GetBool("json")
		all, _ := cmd.Flags().GetBool("all")

		cfg := settings()
		if seed == 0 {
			seed = cfg.Seed
		}
		def := loadDefinition(cfg, ref)

		var store session.Store
		if save {
			s, err := persistence.NewStore(cfg.History)
			if err != nil {
				fmt.Printf("Error opening item log: %v\n", err)
				os.Exit(1)
			}
			defer s.Close()
			store = s
		}

		sess, err := session.NewSession(def, store, session.Options{
			Seed:     seed,
			MaxRolls: cfg.MaxRolls,
			Logger:   newLogger(cfg),
		})
		if err != nil {
			printFault(err)
			os.Exit(1)
		}

		var bar *progressbar.ProgressBar
		if count > 1 && !asJSON {
			bar = progressbar.Default(int64(count), "Rolling")
		}

		items := make([]*persistence.Record, 0, count)
		for i := 0; i < count; i++ {
			rec, err := sess.GenerateInput(sets)
			if err != nil {
				printFault(err)
				os.Exit(1)
			}
			items = append(items, rec)
			if bar != nil {
				bar.Add(1)
			}
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(items); err != nil {
				fmt.Printf("Error encoding items: %v\n", err)
				os.Exit(1)
			}
			return
		}
		for _, rec := range items {
			fmt.Println(renderItem(rec, all))
		}
		if save {
			fmt.Println(infoStyle.Render(fmt.Sprintf("Saved %d item(s) to %s", len(items), cfg.History)))
		}
	},
}

// printFault prints configuration faults one diagnostic per line.
func printFault(err error) {
	var f *engine.Fault
	if errors.As(err, &f) {
		fmt.Println("Error: the loot table is misconfigured")
		for _, d := range f.Diagnostics {
			fmt.Println(warnStyle.Render("  " + d.String()))
		}
		return
	}
	fmt.Printf("Error: %v\n", err)
}

func init() {
	rootCmd.AddCommand(rollCmd)

	rollCmd.Flags().StringArray("set", nil, "seed a variable before rolling, e.g. --set Item_Category=Major")
	rollCmd.Flags().IntP("count", "n", 1, "number of items to generate")
	rollCmd.Flags().Int64("seed", 0, "random seed for reproducible rolls (0 uses crypto/rand)")
	rollCmd.Flags().Bool("save", false, "append generated items to the item log")
	rollCmd.Flags().Bool("json", false, "print items as JSON")
	rollCmd.Flags().Bool("all", false, "show variables that kept their default value")
}
