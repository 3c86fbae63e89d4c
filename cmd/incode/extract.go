package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"incode/internal/diagfmt"
	"incode/internal/driver"
)

var extractFormat string

var extractCmd = &cobra.Command{
	Use:   "extract [paths...]",
	Short: "Print the injectable regions of files without rendering them",
	Long: `Extract resolves directives in every input file and prints each emit
region together with its arguments, resolved data and current content.
Without paths the files of the current project are used.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "pretty", "output format (pretty|json|yaml)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, err := diagfmt.ParseRegionFormat(extractFormat)
	if err != nil {
		return err
	}
	s, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()

	done := s.phase("extract")
	res, err := driver.Extract(cmd.Context(), s.files, driver.Options{
		Matcher:        s.matcher,
		Data:           s.project.Config.Data,
		Jobs:           s.jobs(0),
		MaxDiagnostics: s.maxDiagnostics,
		Logger:         s.logger,
	})
	if err != nil {
		return err
	}
	files := make([]diagfmt.FileRegions, 0, len(res.Files))
	count := 0
	for i := range res.Files {
		f := &res.Files[i]
		if f.Bag.HasErrors() {
			continue
		}
		files = append(files, diagfmt.FileRegions{FileID: f.FileID, Regions: f.Regions})
		count += len(f.Regions)
	}
	done(fmt.Sprintf("%d regions", count))

	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	if err := diagfmt.Regions(cmd.OutOrStdout(), res.FileSet, files, format, s.prettyOpts(colored)); err != nil {
		return fmt.Errorf("failed to write regions: %w", err)
	}

	bag := res.Diagnostics(s.maxDiagnostics)
	s.report(bag, res.FileSet)
	if bag.HasErrors() {
		return errFailed
	}
	return nil
}
