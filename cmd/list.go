package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andresmejia3/labelguard/internal/utils"
)

var listCmd = &cobra.Command{
	Use:         "list",
	Short:       "List all ingested label sets in the database",
	Annotations: map[string]string{needsDB: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		runList(cmd)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command) {
	sets, err := DB.ListSets(cmd.Context())
	if err != nil {
		utils.Die("Failed to list label sets", err)
	}

	if len(sets) == 0 {
		fmt.Println("No label sets found in database.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SET\tDIRECTORY\tFILES\tRECORDS\tERRORS\tINGESTED")
	fmt.Fprintln(w, "---\t---------\t-----\t-------\t------\t--------")

	for _, s := range sets {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			s.ID[:12], s.Dir, s.FileCount, s.RecordCount, s.ErrorCount,
			s.IngestedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()
}
