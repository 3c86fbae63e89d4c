package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"incode/internal/diag"
	"incode/internal/region"
	"incode/internal/render"
	"incode/internal/source"
	"incode/internal/trace"
)

// FileResult is the outcome of processing one file.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Regions int
	// Changed is set when the rendered text differs from the file.
	Changed bool
	// Written is set when the new text was written back.
	Written bool
	// Cached is set when the cache proved the file up to date.
	Cached  bool
	Diff    string
	Bag     *diag.Bag
	Elapsed time.Duration
}

// RunResult holds every file in input order.
type RunResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Changed returns the paths of files whose content changed.
func (r *RunResult) Changed() []string {
	var out []string
	for i := range r.Files {
		if r.Files[i].Changed {
			out = append(out, r.Files[i].Path)
		}
	}
	return out
}

// HasErrors reports whether any file produced an error diagnostic.
func (r *RunResult) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Bag != nil && r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Diagnostics merges the per-file bags, sorted by position.
func (r *RunResult) Diagnostics(max int) *diag.Bag {
	bag := diag.NewBag(max)
	for i := range r.Files {
		if r.Files[i].Bag != nil {
			bag.Merge(r.Files[i].Bag)
		}
	}
	bag.Sort()
	return bag
}

type runner struct {
	opts        Options
	fs          *source.FileSet
	fingerprint string
	tracer      trace.Tracer
	parent      uint64
	stamp       int64
}

// Run renders every region of files and writes the results back unless
// opts.Check is set. Per-file failures end up in the file's bag; the
// returned error is reserved for cancellation and invalid options.
func Run(ctx context.Context, files []string, opts Options) (*RunResult, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	if opts.Renderer == nil {
		return nil, errors.New("driver: Run needs a renderer")
	}
	fingerprint, err := opts.fingerprint()
	if err != nil {
		return nil, err
	}
	fs, ids, loadErrs := loadFiles(files)
	r := &runner{
		opts:        opts,
		fs:          fs,
		fingerprint: fingerprint,
		tracer:      trace.FromContext(ctx),
		parent:      trace.ParentID(ctx),
		stamp:       time.Now().Unix(),
	}
	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	res := &RunResult{FileSet: fs, Files: make([]FileResult, len(files))}
	err = forEach(ctx, len(files), opts.Jobs, func(_ context.Context, i int) error {
		out := &res.Files[i]
		out.Path = files[i]
		out.FileID = ids[i]
		out.Bag = diag.NewBag(opts.MaxDiagnostics)
		start := time.Now()
		stage, procErr := r.process(out, loadErrs[i])
		out.Elapsed = time.Since(start)

		evt := Event{File: out.Path, Stage: stage, Status: StatusDone, Elapsed: out.Elapsed}
		switch {
		case procErr != nil:
			evt.Status, evt.Err = StatusError, procErr
		case out.Cached:
			evt.Status = StatusSkipped
		}
		emit(opts.Progress, evt)
		return nil
	})
	return res, err
}

// process fills out and returns the stage it stopped at together with the
// error that stopped it, if any.
func (r *runner) process(out *FileResult, loadErr error) (Stage, error) {
	log := r.opts.Logger.With(zap.String("file", out.Path))
	if loadErr != nil {
		log.Warn("failed to load file", zap.Error(loadErr))
		out.Bag.Add(loadDiagnostic(out.FileID, loadErr))
		return StageLoad, loadErr
	}

	span := trace.Begin(r.tracer, trace.ScopeFile, out.Path, r.parent)
	defer func() { span.End(fileOutcome(out)) }()

	f := r.fs.Get(out.FileID)
	text := f.Text()
	key := cacheKey(text, r.fingerprint)

	var cached CachePayload
	if ok, err := r.opts.Cache.Get(key, &cached); err != nil {
		log.Debug("cache read failed", zap.Error(err))
	} else if ok {
		log.Debug("cache hit")
		out.Cached = true
		out.Regions = cached.Regions
		return StageLoad, nil
	}

	emit(r.opts.Progress, Event{File: out.Path, Stage: StageExtract, Status: StatusWorking})
	step := trace.Begin(r.tracer, trace.ScopeStep, "extract", span.ID())
	regions, err := region.ExtractRegions(text, r.opts.Matcher, r.opts.Data)
	step.End("")
	if err != nil {
		log.Debug("extract failed", zap.Error(err))
		out.Bag.Add(diag.FromError(err, diag.DirUnknownType, source.Span{File: f.ID}))
		return StageExtract, err
	}
	out.Regions = len(regions)

	emit(r.opts.Progress, Event{File: out.Path, Stage: StageRender, Status: StatusWorking})
	step = trace.Begin(r.tracer, trace.ScopeStep, "render", span.ID())
	var failed *region.Region
	rendered, err := region.Splice(text, regions, func(reg *region.Region) (string, error) {
		s, err := r.opts.Renderer.Render(out.Path, reg)
		if err != nil {
			failed = reg
		}
		return s, err
	})
	step.WithExtra("regions", strconv.Itoa(len(regions))).End("")
	if err != nil {
		log.Debug("render failed", zap.Error(err))
		out.Bag.Add(renderDiagnostic(f.ID, failed, err))
		return StageRender, err
	}

	out.Changed = rendered != text
	if out.Changed && r.opts.Diff {
		d, err := unifiedDiff(out.Path, text, rendered)
		if err != nil {
			return StageRender, fmt.Errorf("diff %s: %w", out.Path, err)
		}
		out.Diff = d
	}

	if out.Changed && !r.opts.Check {
		emit(r.opts.Progress, Event{File: out.Path, Stage: StageWrite, Status: StatusWorking})
		step = trace.Begin(r.tracer, trace.ScopeStep, "write", span.ID())
		err := writeFileAtomic(out.Path, f.Restore([]byte(rendered)))
		step.End("")
		if err != nil {
			log.Error("failed to write file", zap.Error(err))
			out.Bag.Add(diag.New(diag.SevError, diag.IOWriteFileError, source.Span{File: f.ID}, "failed to write file: "+err.Error()))
			return StageWrite, err
		}
		out.Written = true
		log.Info("file updated", zap.Int("regions", out.Regions))
	}

	if !out.Changed || out.Written {
		payload := &CachePayload{Path: out.Path, Regions: out.Regions, Stamp: r.stamp}
		if err := r.opts.Cache.Put(cacheKey(rendered, r.fingerprint), payload); err != nil {
			log.Debug("cache write failed", zap.Error(err))
		}
	}
	if out.Written {
		return StageWrite, nil
	}
	return StageRender, nil
}

func renderDiagnostic(file source.FileID, failed *region.Region, err error) diag.Diagnostic {
	primary := source.Span{File: file}
	if failed != nil {
		primary = failed.Emit
		primary.File = file
	}
	var re *render.Error
	if errors.As(err, &re) {
		return diag.New(diag.SevError, re.Code, primary, re.Error())
	}
	return diag.New(diag.SevError, diag.RndTemplateError, primary, err.Error())
}

func fileOutcome(out *FileResult) string {
	switch {
	case out.Bag.HasErrors():
		return "error"
	case out.Cached:
		return "cached"
	case out.Written:
		return "written"
	case out.Changed:
		return "stale"
	default:
		return "unchanged"
	}
}
