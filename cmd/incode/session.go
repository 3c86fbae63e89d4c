package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"incode/internal/diag"
	"incode/internal/diagfmt"
	"incode/internal/directive"
	"incode/internal/observ"
	"incode/internal/project"
	"incode/internal/source"
	"incode/internal/trace"
)

// errFailed is returned after diagnostics were already printed.
var errFailed = errors.New("incode: failed")

// session bundles what every file-processing command sets up: tracing,
// logging, timings, the project and the list of input files.
type session struct {
	cmd     *cobra.Command
	project *project.Project
	matcher *directive.Matcher
	files   []string
	logger  *zap.Logger
	timer   *observ.Timer
	span    *trace.Span

	maxDiagnostics int
	color          bool
	quiet          bool
	showTimings    bool

	cleanupTrace func()
	cleanupProf  func()
}

func openSession(cmd *cobra.Command, args []string) (*session, error) {
	flags := cmd.Root().PersistentFlags()
	s := &session{cmd: cmd}

	var err error
	if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.showTimings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if s.color, err = useColor(cmd, os.Stderr); err != nil {
		return nil, err
	}

	if s.logger, err = newLogger(verbose); err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if s.cleanupProf, err = setupProfiling(cmd); err != nil {
		return nil, err
	}
	if s.cleanupTrace, err = setupTracing(cmd); err != nil {
		s.cleanupProf()
		return nil, err
	}
	if s.showTimings {
		s.timer = observ.NewTimer()
	}
	s.span = trace.Begin(trace.FromContext(cmd.Context()), trace.ScopeCommand, cmd.Name(), 0)
	cmd.SetContext(trace.WithSpan(cmd.Context(), s.span))

	done := s.phase("discover")
	wd, err := os.Getwd()
	if err != nil {
		s.close()
		return nil, err
	}
	if s.project, err = project.Discover(wd, configPath); err != nil {
		s.close()
		return nil, err
	}
	if s.matcher, err = s.project.Matcher(); err != nil {
		s.close()
		return nil, err
	}
	if s.files, err = collectFiles(s.project, args); err != nil {
		s.close()
		return nil, err
	}
	done(fmt.Sprintf("%d files", len(s.files)))
	s.logger.Debug("project loaded",
		zap.String("config", s.project.Path),
		zap.String("root", s.project.Root),
		zap.Int("files", len(s.files)))
	return s, nil
}

// phase starts a timed and traced phase; the returned func ends it.
func (s *session) phase(name string) func(note string) {
	endTimer := s.timer.Track(name)
	span := trace.Begin(trace.FromContext(s.cmd.Context()), trace.ScopePhase, name, s.span.ID())
	return func(note string) {
		endTimer(note)
		span.End(note)
	}
}

func (s *session) jobs(flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return s.project.Config.Inject.Jobs
}

func (s *session) prettyOpts(colored bool) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     colored,
		Context:   1,
		PathMode:  diagfmt.PathModeAuto,
		BaseDir:   s.project.Root,
		ShowNotes: true,
	}
}

// report prints diagnostics to stderr.
func (s *session) report(bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	done := s.phase("report")
	diagfmt.Pretty(s.cmd.ErrOrStderr(), bag, fs, s.prettyOpts(s.color))
	done(fmt.Sprintf("%d diagnostics", bag.Len()))
}

func (s *session) close() {
	s.span.End("")
	if s.showTimings && s.timer != nil {
		fmt.Fprint(s.cmd.ErrOrStderr(), s.timer.Summary())
	}
	if s.cleanupTrace != nil {
		s.cleanupTrace()
	}
	if s.cleanupProf != nil {
		s.cleanupProf()
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}
}

// collectFiles returns the project files, or the files named by args.
// Directories in args are expanded with the project's include and exclude
// globs.
func collectFiles(p *project.Project, args []string) ([]string, error) {
	if len(args) == 0 {
		return p.Files()
	}
	var out []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, dup := seen[path]; !dup {
			seen[path] = struct{}{}
			out = append(out, path)
		}
	}
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		st, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			add(abs)
			continue
		}
		sub := *p
		sub.Root = abs
		files, err := sub.Files()
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}

func printf(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		panic(err)
	}
}
