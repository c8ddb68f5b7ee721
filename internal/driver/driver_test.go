package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"toyc/internal/diag"
	"toyc/internal/source"
)

const goodProgram = `
extern fn print_i64(v: i64);

fn main() -> i64 {
	var total: i64 = 0;
	var n: i64 = 5;
	while n > 0 {
		total = total + n;
		n = n - 1;
	}
	defer print_i64(total);
	return total;
}
`

func TestCompileSource_Deterministic(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.toy", []byte(goodProgram))

	first, err := CompileSource(fs, id, Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := CompileSource(fs, id, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.Assembly == "" {
		t.Fatalf("no assembly; diagnostics: %+v", first.Bag.Items())
	}
	if first.Assembly != second.Assembly {
		t.Fatal("two compilations of the same source differ")
	}
}

func TestCompileSource_ErrorYieldsNoAssembly(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.toy", []byte(`
fn two(a: i64, b: i64) -> i64 { return a; }
fn main() -> i64 { return two(1, 2, 3); }
`))

	res, err := CompileSource(fs, id, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Assembly != "" {
		t.Fatal("assembly emitted for an erroneous program")
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.SemaArityMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("no arity diagnostic in %+v", res.Bag.Items())
	}
}

func TestCompileSource_ParseErrorSkipsAnalysis(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.toy", []byte("fn broken( { }"))

	res, err := CompileSource(fs, id, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Assembly != "" {
		t.Fatal("assembly emitted for a malformed program")
	}
	if !res.Bag.HasErrors() {
		t.Fatal("expected syntax diagnostics")
	}
}

func TestCompileSource_CacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.toy", []byte(goodProgram))

	cold, err := CompileSource(fs, id, Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if cold.Cached {
		t.Fatal("first compilation reported a cache hit")
	}

	warm, err := CompileSource(fs, id, Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if !warm.Cached {
		t.Fatal("second compilation missed the cache")
	}
	if warm.Assembly != cold.Assembly {
		t.Fatal("cached assembly differs from compiled assembly")
	}
}

func TestCompileSource_ErroneousProgramNotCached(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.toy", []byte("fn f() -> i64 { return true; }"))

	for i := 0; i < 2; i++ {
		res, err := CompileSource(fs, id, Options{Cache: cache})
		if err != nil {
			t.Fatal(err)
		}
		if res.Cached {
			t.Fatal("erroneous program served from cache")
		}
		if !res.Bag.HasErrors() {
			t.Fatal("expected diagnostics")
		}
	}
}

func TestCompileDir_CompilesAllSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.toy"), "fn a() -> i64 { return 1; }")
	writeFile(t, filepath.Join(dir, "b.toy"), "fn b() -> i64 { return 2; }")
	writeFile(t, filepath.Join(dir, "skip.txt"), "not a source file")

	_, results, err := CompileDir(context.Background(), dir, 2, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("compiled %d files, want 2", len(results))
	}
	// Stable path order.
	if filepath.Base(results[0].Path) != "a.toy" || filepath.Base(results[1].Path) != "b.toy" {
		t.Fatalf("unexpected order: %q, %q", results[0].Path, results[1].Path)
	}
	for _, res := range results {
		if res.Assembly == "" {
			t.Fatalf("%s produced no assembly: %+v", res.Path, res.Bag.Items())
		}
	}
}

func TestCompileSource_ShortDiagnosticFormat(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("dup.toy", []byte(`
fn twice() -> i64 { return 1; }
fn twice() -> i64 { return 2; }
`))

	res, err := CompileSource(fs, id, Options{})
	if err != nil {
		t.Fatal(err)
	}
	rendered := diag.FormatShort(res.Bag.Items(), fs, true)
	if !strings.Contains(rendered, "error SEM3002 dup.toy:3:1") {
		t.Fatalf("rendered diagnostics missing duplicate error:\n%s", rendered)
	}
	if !strings.Contains(rendered, "note SEM3002 dup.toy:2:1 previous declaration is here") {
		t.Fatalf("rendered diagnostics missing note:\n%s", rendered)
	}
}

func TestCompileFile_MissingFile(t *testing.T) {
	_, res, err := CompileFile(filepath.Join(t.TempDir(), "nope.toy"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("expected an I/O diagnostic")
	}
	if res.Bag.Items()[0].Code != diag.IOLoadFileError {
		t.Fatalf("code = %v, want IOLoadFileError", res.Bag.Items()[0].Code)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
