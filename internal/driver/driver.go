// Package driver wires the compilation pipeline: tokenize, parse, analyze,
// normalize, generate. It owns the stage gating — later stages never run for
// a file that produced an error — and the optional disk cache that skips
// recompilation of unchanged sources.
package driver

import (
	"toyc/internal/codegen"
	"toyc/internal/diag"
	"toyc/internal/lexer"
	"toyc/internal/lower"
	"toyc/internal/parser"
	"toyc/internal/sema"
	"toyc/internal/source"
)

// Options configures one compilation.
type Options struct {
	// MaxDiagnostics caps the number of collected diagnostics per file.
	MaxDiagnostics int
	// Comments interleaves source position comments in the assembly.
	Comments bool
	// Cache, when set, short-circuits compilation of unchanged sources.
	Cache *DiskCache
}

// Result is the outcome of compiling one file. Assembly is empty whenever
// Bag holds errors.
type Result struct {
	Path     string
	FileID   source.FileID
	Assembly string
	Bag      *diag.Bag
	Cached   bool
}

const defaultMaxDiagnostics = 64

// CompileSource compiles one already-loaded file end to end. The returned
// error reports only infrastructure failures (cache I/O, internal invariant
// violations); user-facing problems land in Result.Bag.
func CompileSource(fs *source.FileSet, id source.FileID, opts Options) (Result, error) {
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = defaultMaxDiagnostics
	}

	file := fs.Get(id)
	res := Result{Path: file.Path, FileID: id, Bag: diag.NewBag(maxDiags)}
	reporter := diag.BagReporter{Bag: res.Bag}

	key := cacheKey(file.Content)
	if opts.Cache != nil {
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil {
			return res, err
		}
		if hit {
			res.Assembly = payload.Assembly
			res.Cached = true
			return res, nil
		}
	}

	toks := lexer.New(file, reporter).Tokenize()
	prog, ok := parser.New(id, toks, reporter).ParseProgram()
	if !ok || res.Bag.HasErrors() {
		return res, nil
	}

	analyzed, ok := sema.Check(prog, sema.Options{Reporter: reporter})
	if !ok || res.Bag.HasErrors() {
		return res, nil
	}

	normalized := lower.Normalize(prog, analyzed)

	asm, err := codegen.Generate(normalized, analyzed, codegen.Options{
		Comments: opts.Comments,
		FileSet:  fs,
	})
	if err != nil {
		return res, err
	}
	res.Assembly = asm

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, &DiskPayload{
			Schema:   diskCacheSchemaVersion,
			Assembly: asm,
		}); err != nil {
			return res, err
		}
	}
	return res, nil
}

// CompileFile loads a file from disk and compiles it.
func CompileFile(path string, opts Options) (*source.FileSet, Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		bag := diag.NewBag(1)
		bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{},
			"failed to load file: "+err.Error()))
		return fs, Result{Path: path, Bag: bag}, nil
	}
	res, err := CompileSource(fs, id, opts)
	return fs, res, err
}
