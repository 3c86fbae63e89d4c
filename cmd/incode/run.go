package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"incode/internal/driver"
	"incode/internal/render"
)

var (
	runCheck      bool
	runDiff       bool
	runJobs       int
	runUI         string
	runNoCache    bool
	runClearCache bool
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Render templates into every emit region and write the files back",
	Long: `Run resolves directives in every input file, renders the template named
by each emit directive into its region and writes changed files back.
With --check nothing is written and the command fails when a file is out
of date. Without paths the files of the current project are used.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runCheck, "check", false, "report out-of-date files without writing them")
	runCmd.Flags().BoolVar(&runDiff, "diff", false, "print a unified diff of every changed file")
	runCmd.Flags().IntVarP(&runJobs, "jobs", "j", 0, "number of files processed in parallel (0 = from config or GOMAXPROCS)")
	runCmd.Flags().StringVar(&runUI, "ui", "auto", "progress UI mode (auto|on|off)")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "do not read or write the render cache")
	runCmd.Flags().BoolVar(&runClearCache, "clear-cache", false, "drop the render cache before running")
}

func runRun(cmd *cobra.Command, args []string) error {
	mode, err := parseUIMode(runUI)
	if err != nil {
		return err
	}
	s, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()

	done := s.phase("templates")
	renderer, err := loadTemplates(s.project.TemplatesDir())
	if err != nil {
		return err
	}
	done(fmt.Sprintf("%d templates", len(renderer.Names())))
	if len(renderer.Names()) == 0 {
		s.logger.Warn("no templates loaded", zap.String("dir", s.project.TemplatesDir()))
	}

	opts := driver.Options{
		Matcher:        s.matcher,
		Renderer:       renderer,
		Data:           s.project.Config.Data,
		Jobs:           s.jobs(runJobs),
		MaxDiagnostics: s.maxDiagnostics,
		Check:          runCheck,
		Diff:           runDiff,
		Cache:          openCache(s),
		Logger:         s.logger,
	}

	done = s.phase("process")
	var res *driver.RunResult
	if mode.live(os.Stdout, s.quiet, len(s.files)) {
		res, err = runWithUI(cmd.Context(), "incode run", s.files, opts)
	} else {
		res, err = driver.Run(cmd.Context(), s.files, opts)
	}
	if err != nil {
		return err
	}
	changed := res.Changed()
	done(fmt.Sprintf("%d changed", len(changed)))

	out := cmd.OutOrStdout()
	for i := range res.Files {
		if d := res.Files[i].Diff; d != "" {
			printf(out, "%s", d)
		}
	}
	if !s.quiet {
		printRunSummary(cmd, s, res)
	}

	bag := res.Diagnostics(s.maxDiagnostics)
	s.report(bag, res.FileSet)
	if bag.HasErrors() {
		return errFailed
	}
	if runCheck && len(changed) > 0 {
		return fmt.Errorf("%d file(s) out of date", len(changed))
	}
	return nil
}

func printRunSummary(cmd *cobra.Command, s *session, res *driver.RunResult) {
	out := cmd.OutOrStdout()
	var written, cached, failed int
	for i := range res.Files {
		f := &res.Files[i]
		switch {
		case f.Bag.HasErrors():
			failed++
		case f.Written:
			written++
			printf(out, "updated %s\n", s.project.Rel(f.Path))
		case f.Changed:
			printf(out, "stale   %s\n", s.project.Rel(f.Path))
		case f.Cached:
			cached++
		}
	}
	if runCheck {
		printf(out, "%d file(s) checked, %d out of date, %d failed\n", len(res.Files), len(res.Changed()), failed)
		return
	}
	printf(out, "%d file(s) processed, %d updated, %d cached, %d failed\n", len(res.Files), written, cached, failed)
}

// loadTemplates parses the templates directory. A missing directory yields
// an empty renderer so that files without emits can still be checked.
func loadTemplates(dir string) (*render.Renderer, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return render.New(), nil
	}
	r, err := render.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return r, nil
}

// openCache returns nil when caching is disabled or unavailable.
func openCache(s *session) *driver.DiskCache {
	if runNoCache {
		return nil
	}
	cache, err := driver.OpenDiskCache("incode")
	if err != nil {
		s.logger.Warn("render cache disabled", zap.Error(err))
		return nil
	}
	if runClearCache {
		if err := cache.DropAll(); err != nil {
			s.logger.Warn("failed to clear render cache", zap.Error(err))
		}
	}
	return cache
}
