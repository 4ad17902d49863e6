package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andresmejia3/labelguard/internal/labels"
	"github.com/andresmejia3/labelguard/internal/utils"
)

var checkOpts Options

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every label file in a directory and report what is broken",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		resolveOptions(cmd, &checkOpts)
		return runCheck(checkOpts)
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkOpts.LabelsDir, "dir", "d", "", "Directory of label files")
	checkCmd.Flags().StringVarP(&checkOpts.Extension, "ext", "e", ".txt", "Label file extension")
	checkCmd.Flags().BoolVarP(&checkOpts.Strict, "strict", "s", false, "Exit non-zero if any line or file failed validation")
	checkCmd.Flags().IntVarP(&checkOpts.MaxClassID, "max-class-id", "m", 0, "Warn when a class id exceeds this value (0 = unlimited)")
	rootCmd.AddCommand(checkCmd)
}

// resolveOptions lets the TOML config supply defaults for flags the user
// did not set explicitly.
func resolveOptions(cmd *cobra.Command, opts *Options) {
	if !cmd.Flags().Changed("dir") && Cfg.LabelsDir != "" {
		opts.LabelsDir = Cfg.LabelsDir
	}
	if !cmd.Flags().Changed("ext") {
		opts.Extension = Cfg.Extension
	}
	if !cmd.Flags().Changed("strict") {
		opts.Strict = Cfg.Strict
	}
	if !cmd.Flags().Changed("max-class-id") {
		opts.MaxClassID = Cfg.MaxClassID
	}
}

// validateDirFlag ensures the target exists and is a directory before any
// work starts.
func validateDirFlag(opts *Options) error {
	if opts.LabelsDir == "" {
		return fmt.Errorf("no labels directory given (use --dir or labels_dir in the config)")
	}
	info, err := os.Stat(opts.LabelsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("labels directory does not exist: %s", opts.LabelsDir)
		}
		return fmt.Errorf("unable to access labels directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("labels path is a file, expected a directory: %s", opts.LabelsDir)
	}
	return nil
}

func runCheck(opts Options) error {
	if err := validateDirFlag(&opts); err != nil {
		utils.ShowError("Invalid check options", err)
		return err
	}

	parser := labels.New(Log)
	results := parser.ParseDirectory(opts.LabelsDir, opts.Extension)

	if len(results) == 0 {
		fmt.Printf("No %s files found in %s\n", opts.Extension, opts.LabelsDir)
		return nil
	}

	totalRecords, totalErrors := 0, 0
	classWarnings := 0
	byKind := make(map[labels.ErrorKind]int)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FILE\tRECORDS\tERRORS\tSTATUS")
	fmt.Fprintln(w, "----\t-------\t------\t------")

	for _, res := range results {
		totalRecords += len(res.Records)
		totalErrors += len(res.Errors)
		for _, perr := range res.Errors {
			byKind[perr.Kind]++
		}

		if opts.MaxClassID > 0 {
			for _, rec := range res.Records {
				if rec.ClassID > opts.MaxClassID {
					classWarnings++
					Log.Warn().Str("path", res.Path).Int("line", rec.Line).
						Msgf("class id %d exceeds configured maximum %d", rec.ClassID, opts.MaxClassID)
				}
			}
		}

		status := "✅ ok"
		switch {
		case res.Fatal():
			status = "🚨 unreadable"
		case len(res.Errors) > 0:
			status = "⚠️  partial"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", filepath.Base(res.Path), len(res.Records), len(res.Errors), status)
	}
	w.Flush()

	fmt.Printf("\n📊 %d files, %d records, %d errors\n", len(results), totalRecords, totalErrors)
	for _, kind := range []labels.ErrorKind{
		labels.MalformedNumber, labels.MissingClassId, labels.OddCoordinateCount,
		labels.TooFewPoints, labels.CoordinateOutOfRange, labels.FileAccess,
	} {
		if byKind[kind] > 0 {
			fmt.Printf("   %-24s %d\n", kind.String(), byKind[kind])
		}
	}
	if classWarnings > 0 {
		fmt.Printf("   %-24s %d\n", "class_id_over_max", classWarnings)
	}

	if opts.Strict && totalErrors > 0 {
		return fmt.Errorf("strict mode: %d errors across %d files", totalErrors, len(results))
	}
	return nil
}
