package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/suderio/loot-table/internal/data"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write the bundled loot tables to a directory",
	Long: `Copies the loot tables shipped with the binary into dir (default
./tables) so they can be edited. Existing files are kept unless --force is set.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "tables"
		if len(args) == 1 {
			dir = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")

		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Printf("Error creating %s: %v\n", dir, err)
			os.Exit(1)
		}

		names := data.Bundled()
		fmt.Printf("Writing %d table(s) to: %s\n", len(names), dir)
		bar := progressbar.Default(int64(len(names)), "Writing tables")

		for _, name := range names {
			path := filepath.Join(dir, name+".yaml")
			if !force {
				if _, err := os.Stat(path); err == nil {
					bar.Add(1)
					continue
				}
			}
			raw, err := data.BundledSource(name)
			if err != nil {
				fmt.Printf("\nError reading %s: %v\n", name, err)
				os.Exit(1)
			}
			if err := os.WriteFile(path, raw, 0o644); err != nil {
				fmt.Printf("\nFailed to save %s: %v\n", path, err)
			}
			bar.Add(1)
		}

		fmt.Println("\nTables ready. Try: loot-table roll weapons")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "overwrite existing files")
}
