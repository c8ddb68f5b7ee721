package driver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"toyc/internal/diag"
	"toyc/internal/source"
)

// SourceExt is the file extension of toy sources.
const SourceExt = ".toy"

// CompileDir compiles every .toy file under dir (non-recursive) with up to
// jobs workers; jobs <= 0 uses one worker per CPU. Results come back in
// stable path order regardless of scheduling.
func CompileDir(ctx context.Context, dir string, jobs int, opts Options) (*source.FileSet, []Result, error) {
	files, err := listSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fs := source.NewFileSet()
	if len(files) == 0 {
		return fs, nil, nil
	}

	// Load everything up front: the FileSet is not safe for concurrent
	// mutation, and compilation itself is the expensive part.
	ids := make(map[string]source.FileID, len(files))
	loadErrs := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fs.Load(path)
		if err != nil {
			loadErrs[path] = err
			continue
		}
		ids[path] = id
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, failed := loadErrs[path]; failed {
				bag := diag.NewBag(1)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{},
					"failed to load file: "+loadErr.Error()))
				results[i] = Result{Path: path, Bag: bag}
				return nil
			}

			res, err := CompileSource(fs, ids[path], opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fs, nil, err
	}
	return fs, results, nil
}

func listSourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), SourceExt) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
