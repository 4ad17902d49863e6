package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/andresmejia3/labelguard/internal/labels"
	"github.com/andresmejia3/labelguard/internal/utils"
)

var ingestOpts Options

var ingestCmd = &cobra.Command{
	Use:         "ingest",
	Short:       "Parse a label directory and persist records and errors to the database",
	Annotations: map[string]string{needsDB: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		resolveOptions(cmd, &ingestOpts)
		return runIngest(cmd, ingestOpts)
	},
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestOpts.LabelsDir, "dir", "d", "", "Directory of label files")
	ingestCmd.Flags().StringVarP(&ingestOpts.Extension, "ext", "e", ".txt", "Label file extension")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, opts Options) error {
	if err := validateDirFlag(&opts); err != nil {
		utils.ShowError("Invalid ingest options", err)
		return err
	}

	ctx := cmd.Context()

	setID, err := utils.GenerateSetID(opts.LabelsDir)
	if err != nil {
		utils.ShowError("Failed to generate set ID", err)
		return err
	}
	if err := DB.EnsureLabelSet(ctx, setID, opts.LabelsDir); err != nil {
		utils.ShowError("Failed to register label set", err)
		return err
	}
	fmt.Fprintf(os.Stderr, "📦 Ingesting Set ID: %s\n", setID[:12])

	parser := labels.New(Log)
	results := parser.ParseDirectory(opts.LabelsDir, opts.Extension)

	bar := progressbar.NewOptions(len(results),
		progressbar.OptionSetDescription("💾 Persisting label files"),
		progressbar.OptionSetWriter(os.Stderr), // Write bar to Stderr
		progressbar.OptionShowCount(),
	)

	totalRecords, totalErrors := 0, 0
	for _, res := range results {
		if err := DB.InsertFileResult(ctx, setID, res); err != nil {
			utils.ShowError(fmt.Sprintf("Failed to persist %s", res.Path), err)
			return err
		}
		totalRecords += len(res.Records)
		totalErrors += len(res.Errors)
		bar.Add(1)
	}
	bar.Finish()

	fmt.Fprintf(os.Stderr, "\n🏁 Ingest Complete. %d files, %d records, %d errors recorded.\n",
		len(results), totalRecords, totalErrors)
	return nil
}
