package driver

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"incode/internal/diag"
	"incode/internal/region"
	"incode/internal/source"
	"incode/internal/trace"
)

// ExtractedFile is the outcome of extracting one file.
type ExtractedFile struct {
	Path    string
	FileID  source.FileID
	Regions []region.Region
	Bag     *diag.Bag
}

// ExtractResult holds every file in input order.
type ExtractResult struct {
	FileSet *source.FileSet
	Files   []ExtractedFile
}

// Extract loads files and resolves their regions in parallel. Malformed
// files are reported in their bag; the returned error is only set when the
// context is cancelled.
func Extract(ctx context.Context, files []string, opts Options) (*ExtractResult, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	fs, ids, loadErrs := loadFiles(files)
	res := &ExtractResult{FileSet: fs, Files: make([]ExtractedFile, len(files))}
	tracer := trace.FromContext(ctx)
	parent := trace.ParentID(ctx)

	err := forEach(ctx, len(files), opts.Jobs, func(_ context.Context, i int) error {
		start := time.Now()
		out := &res.Files[i]
		out.Path = files[i]
		out.FileID = ids[i]
		out.Bag = diag.NewBag(opts.MaxDiagnostics)
		emit(opts.Progress, Event{File: out.Path, Stage: StageLoad, Status: StatusWorking})

		if loadErrs[i] != nil {
			opts.Logger.Warn("failed to load file", zap.String("file", out.Path), zap.Error(loadErrs[i]))
			out.Bag.Add(loadDiagnostic(out.FileID, loadErrs[i]))
			emit(opts.Progress, Event{File: out.Path, Stage: StageLoad, Status: StatusError, Err: loadErrs[i], Elapsed: time.Since(start)})
			return nil
		}

		span := trace.Begin(tracer, trace.ScopeFile, out.Path, parent)
		f := fs.Get(out.FileID)
		regions, err := region.ExtractRegions(f.Text(), opts.Matcher, opts.Data)
		if err != nil {
			out.Bag.Add(diag.FromError(err, diag.DirUnknownType, source.Span{File: f.ID}))
			span.End("error")
			emit(opts.Progress, Event{File: out.Path, Stage: StageExtract, Status: StatusError, Err: err, Elapsed: time.Since(start)})
			return nil
		}
		out.Regions = regions
		span.WithExtra("regions", strconv.Itoa(len(regions))).End("")
		emit(opts.Progress, Event{File: out.Path, Stage: StageExtract, Status: StatusDone, Elapsed: time.Since(start)})
		return nil
	})
	return res, err
}

// Diagnostics merges the per-file bags, sorted by position.
func (r *ExtractResult) Diagnostics(max int) *diag.Bag {
	bag := diag.NewBag(max)
	for i := range r.Files {
		if r.Files[i].Bag != nil {
			bag.Merge(r.Files[i].Bag)
		}
	}
	bag.Sort()
	return bag
}
