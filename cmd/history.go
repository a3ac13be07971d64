package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suderio/loot-table/internal/persistence"
	"github.com/suderio/loot-table/internal/session"
)

var historyCmd = &cobra.Command{
	Use:   "history [table]",
	Short: "List items saved to the item log",
	Long: `Reads the item log and prints the items generated from a table.
With --verify every item is rebuilt from its recorded events and compared with
the stored values.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ref := "weapons"
		if len(args) == 1 {
			ref = args[0]
		}
		verify, _ := cmd.Flags().GetBool("verify")
		limit, _ := cmd.Flags().GetInt("last")

		cfg := settings()
		def := loadDefinition(cfg, ref)

		store, err := persistence.NewStore(cfg.History)
		if err != nil {
			fmt.Printf("Error opening item log: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		sess, err := session.NewSession(def, store, session.Options{Logger: newLogger(cfg)})
		if err != nil {
			printFault(err)
			os.Exit(1)
		}

		records, err := sess.History()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if len(records) == 0 {
			fmt.Printf("No items saved for %s in %s\n", def.Name, cfg.History)
			return
		}
		if limit > 0 && len(records) > limit {
			records = records[len(records)-limit:]
		}

		failed := 0
		for i := range records {
			rec := &records[i]
			fmt.Println(infoStyle.Render(rec.CreatedAt.Local().Format("2006-01-02 15:04:05")))
			fmt.Println(renderItem(rec, false))
			if verify {
				if _, err := sess.Replay(*rec); err != nil {
					failed++
					fmt.Println(warnStyle.Render("! " + err.Error()))
				}
			}
		}
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Bool("verify", false, "replay each item's events and compare with the stored values")
	historyCmd.Flags().Int("last", 0, "only show the last N items")
}
