package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andresmejia3/labelguard/internal/utils"
)

var statsCmd = &cobra.Command{
	Use:         "stats <set_id>",
	Short:       "Show per-class record counts for an ingested label set",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{needsDB: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		runStats(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, setPrefix string) {
	ctx := cmd.Context()

	setID, err := DB.ResolveSet(ctx, setPrefix)
	if err != nil {
		utils.Die("Failed to resolve label set", err)
	}

	counts, err := DB.ClassCounts(ctx, setID)
	if err != nil {
		utils.Die("Failed to compute class stats", err)
	}

	if len(counts) == 0 {
		fmt.Printf("No records stored for set %s.\n", setID[:12])
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CLASS\tRECORDS\tMEAN AREA")
	fmt.Fprintln(w, "-----\t-------\t---------")

	total := 0
	for _, c := range counts {
		total += c.Records
		fmt.Fprintf(w, "%d\t%d\t%.4f\n", c.ClassID, c.Records, c.MeanArea)
	}
	w.Flush()

	fmt.Printf("\n📊 %d records across %d classes\n", total, len(counts))
}
