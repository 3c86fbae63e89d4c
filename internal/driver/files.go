package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"incode/internal/diag"
	"incode/internal/source"
)

// loadFiles reads files into a new FileSet. A file that fails to load is
// registered as an empty virtual file so diagnostics can still name it.
func loadFiles(files []string) (*source.FileSet, []source.FileID, []error) {
	fs := source.NewFileSet()
	ids := make([]source.FileID, len(files))
	errs := make([]error, len(files))
	for i, path := range files {
		id, err := fs.Load(path)
		if err != nil {
			id = fs.AddVirtual(path, nil)
			errs[i] = err
		}
		ids[i] = id
	}
	return fs, ids, errs
}

// forEach runs fn for indexes [0, n) on at most jobs goroutines. fn writes
// its result into a slot owned by i, so no locking is needed.
func forEach(ctx context.Context, n, jobs int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, n))
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

func loadDiagnostic(id source.FileID, err error) diag.Diagnostic {
	return diag.New(diag.SevError, diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+err.Error())
}

// writeFileAtomic replaces path through a temp file in the same directory,
// keeping the permission bits of the existing file.
func writeFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".incode-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
